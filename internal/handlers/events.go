// Package handlers contains the HTTP route handlers of the game sheet API.
// This file handles the goal and penalty routes. Recording works through a
// form: the client opens a form (new or edit), then submits it. Only one form
// is open per sheet and opening another replaces it.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
	"github.com/trentd187/hockey-gamesheet/internal/middleware"
	"github.com/trentd187/hockey-gamesheet/internal/models"
)

// OpenFormRequest is the body of POST .../goals/form and .../penalties/form.
// Set Side to record a new event for that team, or ID to edit an existing one.
type OpenFormRequest struct {
	Side models.Side `json:"side"` // "home" or "away" for a new record
	ID   string      `json:"id"`   // ID of the record to edit; wins over Side
}

// OpenGoalForm handles POST /api/v1/sheets/:gameId/goals/form.
func OpenGoalForm(c *fiber.Ctx) error {
	return openForm(c, (*gamesheet.Session).OpenGoal, (*gamesheet.Session).EditGoal)
}

// OpenPenaltyForm handles POST /api/v1/sheets/:gameId/penalties/form.
func OpenPenaltyForm(c *fiber.Ctx) error {
	return openForm(c, (*gamesheet.Session).OpenPenalty, (*gamesheet.Session).EditPenalty)
}

func openForm(
	c *fiber.Ctx,
	open func(*gamesheet.Session, models.Side) (gamesheet.EditContext, error),
	edit func(*gamesheet.Session, string) (gamesheet.EditContext, error),
) error {
	var req OpenFormRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	s := middleware.Sheet(c)
	var (
		ctx gamesheet.EditContext
		err error
	)
	if req.ID != "" {
		ctx, err = edit(s, req.ID)
	} else {
		ctx, err = open(s, req.Side)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ctx)
}

// CancelForm handles DELETE /api/v1/sheets/:gameId/form.
func CancelForm(c *fiber.Ctx) error {
	return sheetAction(c, (*gamesheet.Session).CancelEdit)
}

// SubmitGoal handles POST /api/v1/sheets/:gameId/goals. It saves the open goal
// form and answers 201 with the stored goal.
func SubmitGoal(c *fiber.Ctx) error {
	var in gamesheet.GoalInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	g, err := middleware.Sheet(c).SubmitGoal(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

// SubmitPenalty handles POST /api/v1/sheets/:gameId/penalties.
func SubmitPenalty(c *fiber.Ctx) error {
	var in gamesheet.PenaltyInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := middleware.Sheet(c).SubmitPenalty(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// DeleteGoal handles DELETE /api/v1/sheets/:gameId/goals/:id. Unknown ids are
// not an error.
func DeleteGoal(c *fiber.Ctx) error {
	id := c.Params("id")
	return sheetAction(c, func(s *gamesheet.Session) error { return s.DeleteGoal(id) })
}

// DeletePenalty handles DELETE /api/v1/sheets/:gameId/penalties/:id.
func DeletePenalty(c *fiber.Ctx) error {
	id := c.Params("id")
	return sheetAction(c, func(s *gamesheet.Session) error { return s.DeletePenalty(id) })
}

// GetTimeline handles GET /api/v1/sheets/:gameId/timeline: goals and
// penalties merged in game-time order.
func GetTimeline(c *fiber.Ctx) error {
	return c.JSON(middleware.Sheet(c).Timeline())
}
