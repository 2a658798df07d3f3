package handlers

import (
	"offerlens/internal/domain"
	applog "offerlens/internal/log"
	"offerlens/internal/services"
	"offerlens/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OfferHandler struct {
	Offers *services.OfferService
}

// Create stores a submitted offer. Malformed expiry dates are accepted
// as-is; the feed treats them as "never expires".
func (h *OfferHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)

	var in domain.Offer
	if err := c.BodyParser(&in); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	o, err := h.Offers.Create(u.ID, in)
	if err != nil {
		applog.Security(c, "offer.create.reject", map[string]any{"reason": err.Error()})
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	applog.Audit(c, "offer.create", map[string]any{"offer": o.ID, "type": o.Type})
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OfferHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "offer not found")
	}
	o, err := h.Offers.Get(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "offer not found")
	}
	return c.JSON(o)
}
