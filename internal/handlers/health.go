package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
)

// HealthCheck returns a handler for GET /health. It touches no upstream
// service, so it only says the process is serving, plus how many sheets
// are open in it.
func HealthCheck(registry *gamesheet.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"open_sheets": registry.Len(),
		})
	}
}
