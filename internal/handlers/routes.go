package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
	"github.com/trentd187/hockey-gamesheet/internal/live"
	"github.com/trentd187/hockey-gamesheet/internal/middleware"
	"github.com/trentd187/hockey-gamesheet/internal/models"
	"github.com/trentd187/hockey-gamesheet/internal/provider"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Provider provider.Provider
	Rosters  provider.RosterStore // Optional; nil when no database is configured
	Registry *gamesheet.Registry
	Hub      *live.Hub
}

// Mount registers every route on app.
func Mount(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.Registry))

	api := app.Group("/api/v1")
	api.Get("/options", GetFormOptions)

	// League data
	// GET  /api/v1/leagues                               list leagues
	// GET  /api/v1/leagues/:leagueId/games               list a league's schedule
	// POST /api/v1/leagues/:leagueId/games/:gameId/sheet open (or rejoin) a game's sheet
	api.Get("/leagues", GetLeagues(d.Provider))
	api.Get("/leagues/:leagueId/games", GetGames(d.Provider, func(id string) bool {
		_, ok := d.Registry.Get(id)
		return ok
	}))
	api.Post("/leagues/:leagueId/games/:gameId/sheet", OpenSheet(d.Provider, d.Registry, d.Hub))

	sheets := api.Group("/sheets/:gameId", middleware.LoadSheet(d.Registry))
	setup := middleware.RequireState(models.GameStatusSetup)
	active := middleware.RequireState(models.GameStatusActive)

	sheets.Get("/", GetSheet)
	sheets.Delete("/", CloseSheet(d.Registry))
	sheets.Get("/timeline", GetTimeline)
	if d.Hub != nil {
		sheets.Get("/stream", StreamSheet(d.Hub))
	}

	// Lifecycle: setup -> active -> ended
	sheets.Post("/start", StartGame(d.Rosters))
	sheets.Post("/end", EndGame)

	// Rosters, editable during setup only
	sheets.Post("/roster/:side/players", setup, AddPlayer)
	sheets.Patch("/roster/:side/players/:index", setup, UpdatePlayer)
	sheets.Delete("/roster/:side/players/:index", setup, RemovePlayer)

	// Clock
	clockRoutes := sheets.Group("/clock", active)
	clockRoutes.Post("/start", StartClock)
	clockRoutes.Post("/stop", StopClock)
	clockRoutes.Post("/toggle", ToggleClock)
	clockRoutes.Post("/reset", ResetClock)
	clockRoutes.Post("/adjust", AdjustClock)
	clockRoutes.Post("/period", SetPeriod)
	clockRoutes.Post("/time", SetClockTime)

	// Goals and penalties
	sheets.Post("/goals/form", active, OpenGoalForm)
	sheets.Post("/goals", active, SubmitGoal)
	sheets.Delete("/goals/:id", active, DeleteGoal)
	sheets.Post("/penalties/form", active, OpenPenaltyForm)
	sheets.Post("/penalties", active, SubmitPenalty)
	sheets.Delete("/penalties/:id", active, DeletePenalty)
	sheets.Delete("/form", active, CancelForm)
}
