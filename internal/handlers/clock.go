// Package handlers contains the HTTP route handlers of the game sheet API.
// This file handles the /clock routes. They are only mounted for active
// games (see routes.go); in any other state middleware.RequireState answers
// 409 Conflict before the handler runs.
//
// Every clock handler answers with the full sheet snapshot after the action,
// so the client does not have to wait for the next stream event to redraw.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/clock"
	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
)

// AdjustClockRequest is the JSON body we expect on POST .../clock/adjust.
// The UI sends ±1, ±10 and ±60 but any whole number of seconds is accepted.
type AdjustClockRequest struct {
	Delta int `json:"delta"` // Seconds, may be negative
}

// SetPeriodRequest is the JSON body we expect on POST .../clock/period.
type SetPeriodRequest struct {
	Period string `json:"period"` // "P1".."P3", "OT" or "1".."3"
}

// SetClockTimeRequest is the JSON body we expect on POST .../clock/time.
// Malformed parts of the time read as zero rather than failing the request.
type SetClockTimeRequest struct {
	Time string `json:"time"` // MM:SS
}

// StartClock handles POST /api/v1/sheets/:gameId/clock/start.
func StartClock(c *fiber.Ctx) error {
	return sheetAction(c, (*gamesheet.Session).StartClock)
}

// StopClock handles POST /api/v1/sheets/:gameId/clock/stop.
func StopClock(c *fiber.Ctx) error {
	return sheetAction(c, (*gamesheet.Session).StopClock)
}

// ToggleClock handles POST /api/v1/sheets/:gameId/clock/toggle.
func ToggleClock(c *fiber.Ctx) error {
	return sheetAction(c, (*gamesheet.Session).ToggleClock)
}

// ResetClock handles POST /api/v1/sheets/:gameId/clock/reset.
func ResetClock(c *fiber.Ctx) error {
	return sheetAction(c, (*gamesheet.Session).ResetClock)
}

// AdjustClock handles POST /api/v1/sheets/:gameId/clock/adjust.
func AdjustClock(c *fiber.Ctx) error {
	var req AdjustClockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return sheetAction(c, func(s *gamesheet.Session) error { return s.AdjustClock(req.Delta) })
}

// SetPeriod handles POST /api/v1/sheets/:gameId/clock/period.
func SetPeriod(c *fiber.Ctx) error {
	var req SetPeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := clock.ParsePeriod(req.Period)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return sheetAction(c, func(s *gamesheet.Session) error { return s.SetPeriod(p) })
}

// SetClockTime handles POST /api/v1/sheets/:gameId/clock/time.
func SetClockTime(c *fiber.Ctx) error {
	var req SetClockTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return sheetAction(c, func(s *gamesheet.Session) error { return s.SetClockTime(req.Time) })
}
