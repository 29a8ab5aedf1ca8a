package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "DATABASE_URL", "MIGRATIONS_DIR", "CLOCK_TICK", "HOCKEYDATA_BASE_URL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.MigrationsDir != "migrations" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.ClockTick != time.Second {
		t.Fatalf("clock tick = %s, want 1s", cfg.ClockTick)
	}
	if cfg.CacheEnabled() {
		t.Fatal("cache should be off without DATABASE_URL")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/gamesheet")
	t.Setenv("CLOCK_TICK", "250ms")
	t.Setenv("HOCKEYDATA_CUSTOMER", "acme")
	t.Setenv("HOCKEYDATA_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || !cfg.CacheEnabled() || cfg.ClockTick != 250*time.Millisecond {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.HockeyData.Customer != "acme" || cfg.HockeyData.Password != "secret" {
		t.Fatalf("hockeydata = %+v", cfg.HockeyData)
	}
}

func TestLoadRejectsBadTick(t *testing.T) {
	for _, v := range []string{"soon", "-1s", "0s"} {
		t.Setenv("CLOCK_TICK", v)
		if _, err := Load(); err == nil {
			t.Fatalf("CLOCK_TICK=%q: expected an error", v)
		}
	}
}
