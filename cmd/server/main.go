// Command server runs the hockey game sheet API.
//
// Game sheets live in memory for as long as the process runs. League and game
// data comes from the hockeydata API, optionally cached in PostgreSQL so a rink
// without a network connection can still open sheets for known games.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/trentd187/hockey-gamesheet/internal/clock"
	"github.com/trentd187/hockey-gamesheet/internal/config"
	"github.com/trentd187/hockey-gamesheet/internal/database"
	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
	"github.com/trentd187/hockey-gamesheet/internal/handlers"
	"github.com/trentd187/hockey-gamesheet/internal/live"
	"github.com/trentd187/hockey-gamesheet/internal/provider"
	"github.com/trentd187/hockey-gamesheet/internal/provider/hockeydata"
	"github.com/trentd187/hockey-gamesheet/internal/provider/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := handlers.Deps{
		Registry: gamesheet.NewRegistry(gamesheet.WithClockOptions(clock.WithInterval(cfg.ClockTick))),
		Hub:      live.NewHub(),
	}

	var leagues provider.Provider = hockeydata.New(cfg.HockeyData.BaseURL, cfg.HockeyData.Customer, cfg.HockeyData.Password)
	if cfg.CacheEnabled() {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		cache := store.New(db, leagues)
		leagues = cache
		deps.Rosters = cache
		log.Printf("League data cached in PostgreSQL")
	}
	deps.Provider = leagues

	go deps.Hub.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName: "Hockey Game Sheet API",
	})
	app.Use(logger.New())
	// Displays on other origins (a scoreboard, the bench tablet) read the API.
	app.Use(cors.New())

	handlers.Mount(app, deps)

	go func() {
		<-ctx.Done()
		log.Printf("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Starting server on port %s (%s)", cfg.Port, cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
