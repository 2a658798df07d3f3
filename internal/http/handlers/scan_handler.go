package handlers

import (
	"errors"

	applog "offerlens/internal/log"
	"offerlens/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ScanHandler struct {
	Scan *services.ScanService
}

type scanRequest struct {
	Image string `json:"image"` // base64-encoded photo of the notice
}

// Analyze extracts offer fields from a captured notice. Upstream
// failures are returned to the user with the upstream message so the
// capture flow can show it and offer a retry.
func (h *ScanHandler) Analyze(c *fiber.Ctx) error {
	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	draft, err := h.Scan.Analyze(c.Context(), req.Image)
	if err != nil {
		if errors.Is(err, services.ErrEmptyImage) || errors.Is(err, services.ErrBadImage) || errors.Is(err, services.ErrImageTooLarge) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		applog.Error(c, "scan.analyze.fail", err, nil)
		return jsonError(c, fiber.StatusBadGateway, err.Error())
	}

	applog.Audit(c, "scan.analyze", map[string]any{"type": draft.Type})
	return c.JSON(fiber.Map{"offer": draft})
}
