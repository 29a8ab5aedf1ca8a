// Package handlers contains the HTTP route handlers of the game sheet API.
// This file handles opening and closing a game sheet, the game lifecycle
// (start and end) and the roster editor used before the game starts.
//
// Every /sheets/:gameId route runs behind middleware.LoadSheet, which looks the
// session up in the registry. Handlers read it back with middleware.Sheet(c)
// instead of touching the registry themselves.
package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
	"github.com/trentd187/hockey-gamesheet/internal/live"
	"github.com/trentd187/hockey-gamesheet/internal/middleware"
	"github.com/trentd187/hockey-gamesheet/internal/models"
	"github.com/trentd187/hockey-gamesheet/internal/provider"
	"github.com/trentd187/hockey-gamesheet/internal/roster"
)

// OpenSheet returns a handler for POST /api/v1/leagues/:leagueId/games/:gameId/sheet.
// It opens the game's sheet, seeding a new session from the provider the first
// time, and answers with the snapshot (201 when created, 200 when it already existed).
func OpenSheet(p provider.Provider, registry *gamesheet.Registry, hub *live.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID := c.Params("gameId")
		if s, ok := registry.Get(gameID); ok {
			return c.JSON(s.Snapshot())
		}

		// Resolve the league first so an unknown league is reported as such
		// rather than as a missing game.
		league, err := provider.FindLeague(c.UserContext(), p, c.Params("leagueId"))
		if err != nil {
			return respondError(c, err)
		}
		game, err := provider.FindGame(c.UserContext(), p, league.ID, gameID)
		if err != nil {
			return respondError(c, err)
		}

		s, created := registry.Open(game)
		if !created {
			return c.JSON(s.Snapshot())
		}
		if hub != nil {
			hub.Watch(s)
		}
		log.Printf("handlers: opened sheet for game %s in %s (%s vs %s)", game.ID, league.Name, game.HomeTeam.Name, game.AwayTeam.Name)
		return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
	}
}

// GetSheet handles GET /api/v1/sheets/:gameId.
func GetSheet(c *fiber.Ctx) error {
	return c.JSON(middleware.Sheet(c).Snapshot())
}

// CloseSheet returns a handler for DELETE /api/v1/sheets/:gameId. The sheet
// and everything recorded on it is discarded.
func CloseSheet(registry *gamesheet.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		registry.Delete(c.Params("gameId"))
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// StartGame returns a handler for POST /api/v1/sheets/:gameId/start. When
// rosters is non-nil, both final rosters are saved for the teams' next games;
// a failed save is logged and does not fail the request.
func StartGame(rosters provider.RosterStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := middleware.Sheet(c)
		if err := s.StartGame(); err != nil {
			return respondError(c, err)
		}

		if rosters != nil {
			game := s.Game()
			for _, side := range []models.Side{models.SideHome, models.SideAway} {
				team := game.Team(side)
				if team.ID == "" {
					continue
				}
				if err := rosters.SaveRoster(c.UserContext(), team.ID, team.Players); err != nil {
					log.Printf("handlers: %v", err)
				}
			}
		}
		return c.JSON(s.Snapshot())
	}
}

// EndGame handles POST /api/v1/sheets/:gameId/end.
func EndGame(c *fiber.Ctx) error {
	return sheetAction(c, func(s *gamesheet.Session) error { return s.EndGame() })
}

// UpdatePlayerRequest is the body of PATCH .../roster/:side/players/:index.
type UpdatePlayerRequest struct {
	Field roster.Field `json:"field"` // "number" or "name"
	Value string       `json:"value"` // New value; an empty string clears the cell
}

// AddPlayer handles POST /api/v1/sheets/:gameId/roster/:side/players.
func AddPlayer(c *fiber.Ctx) error {
	side := models.Side(c.Params("side"))
	return sheetAction(c, func(s *gamesheet.Session) error { return s.AddPlayer(side) })
}

// UpdatePlayer handles PATCH /api/v1/sheets/:gameId/roster/:side/players/:index.
func UpdatePlayer(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "index must be a number")
	}
	var req UpdatePlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	side := models.Side(c.Params("side"))
	return sheetAction(c, func(s *gamesheet.Session) error {
		return s.UpdatePlayer(side, index, req.Field, req.Value)
	})
}

// RemovePlayer handles DELETE /api/v1/sheets/:gameId/roster/:side/players/:index.
func RemovePlayer(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "index must be a number")
	}
	side := models.Side(c.Params("side"))
	return sheetAction(c, func(s *gamesheet.Session) error { return s.RemovePlayer(side, index) })
}

// sheetAction runs fn on the request's sheet and answers with the new snapshot.
func sheetAction(c *fiber.Ctx, fn func(*gamesheet.Session) error) error {
	s := middleware.Sheet(c)
	if err := fn(s); err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.Snapshot())
}
