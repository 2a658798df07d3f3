package handlers

import (
	"errors"
	"strings"

	"offerlens/internal/domain"
	"offerlens/internal/log"
	"offerlens/internal/services"
	"offerlens/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type FeedHandler struct {
	Offers   *services.OfferService
	Location *services.LocationService
}

// List serves the filtered feed. The center point comes from explicit
// lat/lng (device location) or from geocoding a free-text location
// through the cache; absent both, proximity filtering is off.
func (h *FeedHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)

	typeFilter, ok := validate.OfferType(c.Query("type"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "type", "value": c.Query("type")})
		return jsonError(c, fiber.StatusBadRequest, "invalid type filter")
	}

	query := ""
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		q, ok := validate.Q(raw)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q"})
			return jsonError(c, fiber.StatusBadRequest, "invalid search query")
		}
		query = q
	}

	center, err := h.centerPoint(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	offers, err := h.Offers.Feed(u.ID, services.FeedState{
		Type:   typeFilter,
		Query:  query,
		Center: center,
	})
	if err != nil {
		log.Error(c, "feed.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load feed")
	}

	resp := fiber.Map{"offers": offers, "count": len(offers)}
	if center != nil {
		resp["center"] = center
	}
	return c.JSON(resp)
}

var (
	errBadCoords   = errors.New("invalid coordinates")
	errBadLocation = errors.New("invalid location")
)

func (h *FeedHandler) centerPoint(c *fiber.Ctx) (*domain.Coords, error) {
	latRaw, lngRaw := c.Query("lat"), c.Query("lng")
	if latRaw != "" || lngRaw != "" {
		lat, okLat := validate.Coord(latRaw, -90, 90)
		lng, okLng := validate.Coord(lngRaw, -180, 180)
		if !okLat || !okLng {
			log.Security(c, "validation.fail", map[string]any{"field": "lat/lng"})
			return nil, errBadCoords
		}
		return &domain.Coords{Lat: lat, Lng: lng}, nil
	}
	if raw := c.Query("location"); raw != "" {
		loc, ok := validate.Location(raw)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "location"})
			return nil, errBadLocation
		}
		// Geocode failure degrades to no proximity filter.
		return h.Location.Geocode(c.Context(), loc), nil
	}
	return nil, nil
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
