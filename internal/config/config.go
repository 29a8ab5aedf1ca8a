// Package config loads runtime configuration from the environment.
// A .env file in the working directory is read first for local development;
// real environment variables always win.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.
type Config struct {
	Port          string        // TCP port of the HTTP server (e.g. "8080")
	Env           string        // "development", "staging" or "production"
	DatabaseURL   string        // Optional; enables the PostgreSQL cache of leagues and rosters
	MigrationsDir string        // Directory with the numbered .sql migration files
	ClockTick     time.Duration // How long one game-clock second takes; 1s outside of demos

	HockeyData HockeyData
}

// HockeyData configures the league data provider.
type HockeyData struct {
	BaseURL  string // Empty uses the public API
	Customer string // Customer key for listing leagues
	Password string // League password for listing schedules
}

// Load reads the configuration. It only fails on values that are present but
// malformed; everything missing falls back to a default.
func Load() (*Config, error) {
	// A missing .env file is fine outside development.
	_ = godotenv.Load()

	tick := time.Second
	if raw := os.Getenv("CLOCK_TICK"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("CLOCK_TICK: invalid duration %q", raw)
		}
		tick = d
	}

	return &Config{
		Port:          getenv("PORT", "8080"),
		Env:           getenv("ENV", "development"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MigrationsDir: getenv("MIGRATIONS_DIR", "migrations"),
		ClockTick:     tick,
		HockeyData: HockeyData{
			BaseURL:  os.Getenv("HOCKEYDATA_BASE_URL"),
			Customer: os.Getenv("HOCKEYDATA_CUSTOMER"),
			Password: os.Getenv("HOCKEYDATA_PASSWORD"),
		},
	}, nil
}

// CacheEnabled reports whether a database was configured.
func (c *Config) CacheEnabled() bool {
	return c.DatabaseURL != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
