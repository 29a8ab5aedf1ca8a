package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
	"github.com/trentd187/hockey-gamesheet/internal/provider"
	"github.com/trentd187/hockey-gamesheet/internal/roster"
)

// respondError maps a domain error to a status code and a {"error": ...} body.
//
//	404  unknown league, game, sheet or record
//	409  action not allowed in the sheet's current state
//	400  invalid input
//	500  anything else
func respondError(c *fiber.Ctx, err error) error {
	var verr *gamesheet.ValidationError
	switch {
	case errors.As(err, &verr):
		body := fiber.Map{"error": verr.Message}
		if verr.Field != "" {
			body["field"] = verr.Field
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)

	case errors.Is(err, provider.ErrNotFound),
		errors.Is(err, gamesheet.ErrSessionNotFound),
		errors.Is(err, gamesheet.ErrEventNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, gamesheet.ErrInvalidTransition),
		errors.Is(err, gamesheet.ErrNotInSetup),
		errors.Is(err, gamesheet.ErrNotActive),
		errors.Is(err, gamesheet.ErrNoEditContext):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, gamesheet.ErrUnknownSide),
		errors.Is(err, roster.ErrIndexOutOfRange),
		errors.Is(err, roster.ErrUnknownField):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("handlers: %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

// badRequest answers 400 for a body or parameter that could not be parsed.
func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
