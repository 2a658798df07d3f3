package handlers

import (
	"offerlens/internal/services"
	"offerlens/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// GeoHandler exposes the cached geocoding lookups. Failures have
// already been logged and degraded inside the location service, so
// these endpoints only ever answer 200 with a possibly-empty result.
type GeoHandler struct {
	Location *services.LocationService
}

func (h *GeoHandler) Suggest(c *fiber.Ctx) error {
	q := c.Query("q")
	return c.JSON(fiber.Map{"suggestions": h.Location.Suggest(c.Context(), q)})
}

func (h *GeoHandler) Geocode(c *fiber.Ctx) error {
	q, ok := validate.Location(c.Query("q"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid location")
	}
	pt := h.Location.Geocode(c.Context(), q)
	if pt == nil {
		return c.JSON(fiber.Map{"found": false})
	}
	return c.JSON(fiber.Map{"found": true, "lat": pt.Lat, "lng": pt.Lng})
}

func (h *GeoHandler) Reverse(c *fiber.Ctx) error {
	lat, okLat := validate.Coord(c.Query("lat"), -90, 90)
	lng, okLng := validate.Coord(c.Query("lng"), -180, 180)
	if !okLat || !okLng {
		return jsonError(c, fiber.StatusBadRequest, "invalid coordinates")
	}
	return c.JSON(fiber.Map{"city": h.Location.ReverseCity(c.Context(), lat, lng)})
}
