// Package handlers contains the HTTP route handlers of the game sheet API.
// This file handles the /api/v1/leagues routes: the league list and each
// league's schedule, both read from the provider.
//
// League and game data belongs to the remote hockey data service. When the
// provider fails we answer 502 Bad Gateway, so the app can tell "you asked for
// something that does not exist" (404) apart from "the data source is down".
package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/clock"
	"github.com/trentd187/hockey-gamesheet/internal/ledger"
	"github.com/trentd187/hockey-gamesheet/internal/models"
	"github.com/trentd187/hockey-gamesheet/internal/provider"
)

// GameResponse is one entry of the schedule list.
type GameResponse struct {
	ID          string `json:"id"`                 // The provider's game ID
	Name        string `json:"name,omitempty"`     // Game label from the schedule, e.g. "Round 4"
	Division    string `json:"division,omitempty"` // Division within the league, if any
	HomeTeam    string `json:"home_team"`          // Display name of the home team
	AwayTeam    string `json:"away_team"`          // Display name of the away team
	ScheduledAt string `json:"scheduled_at"`       // Face-off time as an RFC 3339 string in UTC
	Venue       string `json:"venue"`              // Rink name
	Open        bool   `json:"open"`               // A sheet is already open for this game
}

// GetLeagues returns a handler for GET /api/v1/leagues.
func GetLeagues(p provider.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		leagues, err := p.ListLeagues(c.UserContext())
		if err != nil {
			return upstreamError(c, err)
		}
		if leagues == nil {
			leagues = []models.League{}
		}
		return c.JSON(leagues)
	}
}

// GetGames returns a handler for GET /api/v1/leagues/:leagueId/games.
// isOpen reports whether a sheet exists for a game; it may be nil.
func GetGames(p provider.Provider, isOpen func(gameID string) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		games, err := p.ListGames(c.UserContext(), c.Params("leagueId"))
		if err != nil {
			return upstreamError(c, err)
		}

		out := make([]GameResponse, 0, len(games))
		for _, g := range games {
			out = append(out, GameResponse{
				ID:          g.ID,
				Name:        g.Name,
				Division:    g.Division,
				HomeTeam:    g.HomeTeam.Name,
				AwayTeam:    g.AwayTeam.Name,
				ScheduledAt: g.ScheduledAt.UTC().Format(time.RFC3339),
				Venue:       g.Venue,
				Open:        isOpen != nil && isOpen(g.ID),
			})
		}
		return c.JSON(out)
	}
}

// GetFormOptions handles GET /api/v1/options: the choices offered by the
// goal and penalty forms.
func GetFormOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"periods":         clock.Periods,
		"situations":      ledger.Situations,
		"shot_types":      ledger.ShotTypes,
		"penalty_minutes": ledger.PenaltyMinutes,
		"penalty_types":   ledger.PenaltyTypes,
	})
}

// upstreamError answers 404 for unknown leagues and 502 when the provider failed.
func upstreamError(c *fiber.Ctx, err error) error {
	if errors.Is(err, provider.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("handlers: provider: %v", err)
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "league data is unavailable"})
}
