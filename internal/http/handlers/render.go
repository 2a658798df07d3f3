package handlers

import "github.com/gofiber/fiber/v2"

// jsonError is the uniform error shape of the API.
func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
