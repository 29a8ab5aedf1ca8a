package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
	"github.com/trentd187/hockey-gamesheet/internal/models"
)

func newApp(registry *gamesheet.Registry) *fiber.App {
	app := fiber.New()
	sheets := app.Group("/sheets/:gameId", LoadSheet(registry))
	sheets.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(Sheet(c).GameID())
	})
	sheets.Post("/goals", RequireState(models.GameStatusActive), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func TestLoadSheet(t *testing.T) {
	registry := gamesheet.NewRegistry()
	s, _ := registry.Open(models.Game{ID: "g1"})
	t.Cleanup(s.Close)
	app := newApp(registry)

	resp, err := app.Test(httptest.NewRequest("GET", "/sheets/g1/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/sheets/nope/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRequireState(t *testing.T) {
	registry := gamesheet.NewRegistry()
	s, _ := registry.Open(models.Game{ID: "g1"})
	t.Cleanup(s.Close)
	app := newApp(registry)

	resp, err := app.Test(httptest.NewRequest("POST", "/sheets/g1/goals", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("setup status = %d, want 409", resp.StatusCode)
	}

	if err := s.StartGame(); err != nil {
		t.Fatal(err)
	}
	resp, err = app.Test(httptest.NewRequest("POST", "/sheets/g1/goals", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("active status = %d, want 201", resp.StatusCode)
	}
}
