// Package middleware contains fiber middleware shared by the game sheet routes.
package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
	"github.com/trentd187/hockey-gamesheet/internal/models"
)

// sheetKey is the c.Locals key LoadSheet stores the session under.
const sheetKey = "sheet"

// LoadSheet looks up the session named by the :gameId route parameter and
// stores it for the handlers after it. Unknown games get 404.
//
//	sheets := api.Group("/sheets/:gameId", middleware.LoadSheet(registry))
func LoadSheet(registry *gamesheet.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := registry.Get(c.Params("gameId"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": gamesheet.ErrSessionNotFound.Error(),
			})
		}
		c.Locals(sheetKey, s)
		return c.Next()
	}
}

// Sheet returns the session stored by LoadSheet, or nil.
func Sheet(c *fiber.Ctx) *gamesheet.Session {
	s, _ := c.Locals(sheetKey).(*gamesheet.Session)
	return s
}

// RequireState lets the request through only while the sheet is in one of the
// given lifecycle states, and answers 409 Conflict otherwise. It must run after
// LoadSheet.
//
//	sheets.Post("/goals", middleware.RequireState(models.GameStatusActive), handlers.SubmitGoal)
//
// The session re-checks the state itself; this only rejects early with a
// clearer message.
func RequireState(states ...models.GameStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := Sheet(c)
		if s == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": gamesheet.ErrSessionNotFound.Error(),
			})
		}

		current := s.State()
		for _, state := range states {
			if current == state {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "not allowed while the game is " + string(current),
			"state": current,
		})
	}
}
