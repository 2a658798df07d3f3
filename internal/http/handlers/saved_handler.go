package handlers

import (
	applog "offerlens/internal/log"
	"offerlens/internal/services"
	"offerlens/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SavedHandler struct {
	Saved *services.SavedService
}

type saveRequest struct {
	OfferID string `json:"offerId"`
}

func (h *SavedHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	items, err := h.Saved.List(u.ID)
	if err != nil {
		applog.Error(c, "saved.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load saved offers")
	}
	return c.JSON(fiber.Map{"offers": items, "count": len(items)})
}

func (h *SavedHandler) Save(c *fiber.Ctx) error {
	u := currentUser(c)
	var req saveRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	id, ok := validate.ID(req.OfferID)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing offerId")
	}
	if err := h.Saved.Save(u.ID, id); err != nil {
		applog.Error(c, "saved.save.fail", err, map[string]any{"offer": id})
		return jsonError(c, fiber.StatusNotFound, "offer not found")
	}
	applog.Audit(c, "saved.save", map[string]any{"offer": id})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *SavedHandler) Unsave(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing offer id")
	}
	if err := h.Saved.Unsave(u.ID, id); err != nil {
		applog.Error(c, "saved.unsave.fail", err, map[string]any{"offer": id})
		return jsonError(c, fiber.StatusInternalServerError, "could not unsave offer")
	}
	applog.Audit(c, "saved.unsave", map[string]any{"offer": id})
	return c.JSON(fiber.Map{"ok": true})
}
