package hockeydata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/trentd187/hockey-gamesheet/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "acme", "secret")
}

func TestListLeagues(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/GetListOfAllLeagues" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("customer"); got != "acme" {
			t.Errorf("customer = %s, want acme", got)
		}
		w.Write([]byte(`{"Liste":[{"Id":343,"DisplayText":"Hobby League A"},{"Id":7,"DisplayText":"Veterans"}]}`))
	})

	leagues, err := c.ListLeagues(context.Background())
	if err != nil {
		t.Fatalf("list leagues: %v", err)
	}
	if len(leagues) != 2 || leagues[0].ID != "343" || leagues[0].Name != "Hobby League A" {
		t.Fatalf("leagues = %+v", leagues)
	}
}

func TestListGames(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/GetAllGamesOfLeagueAsJson" || q.Get("leagueId") != "343" || q.Get("password") != "secret" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Write([]byte(`[{
			"GameId": 1201,
			"GameGuid": "abc",
			"Gamename": "Round 4",
			"DivisionName": "Division A",
			"HomeTeamname": "Ice Wolves",
			"AwayTeamname": "Frost Giants",
			"LocationName": "Rink 2",
			"ScheduledDate": "2026-01-10T19:30:00",
			"GameStatus": 0,
			"RosterStatus": "open"
		}]`))
	})

	games, err := c.ListGames(context.Background(), "343")
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("games = %d, want 1", len(games))
	}
	g := games[0]
	if g.ID != "1201" || g.LeagueID != "343" || g.Venue != "Rink 2" || g.Division != "Division A" {
		t.Fatalf("game = %+v", g)
	}
	if g.HomeTeam.Name != "Ice Wolves" || g.AwayTeam.Name != "Frost Giants" || g.HomeTeam.ID == g.AwayTeam.ID {
		t.Fatalf("teams = %+v / %+v", g.HomeTeam, g.AwayTeam)
	}
	if g.Status != models.GameStatusSetup {
		t.Fatalf("status = %s, want setup", g.Status)
	}
	want := time.Date(2026, 1, 10, 19, 30, 0, 0, time.UTC)
	if !g.ScheduledAt.Equal(want) {
		t.Fatalf("scheduled = %s, want %s", g.ScheduledAt, want)
	}
}

func TestTeamIDIsStablePerLeague(t *testing.T) {
	if a, b := TeamID("343", "Ice Wolves"), TeamID("343", "  ice   WOLVES "); a != b {
		t.Fatalf("ids differ: %s vs %s", a, b)
	}
	if TeamID("343", "Ice Wolves") == TeamID("7", "Ice Wolves") {
		t.Fatal("same name in another league must get another id")
	}
	if got := TeamID("343", "Ice Wolves"); got != "343:ice-wolves" {
		t.Fatalf("id = %s, want 343:ice-wolves", got)
	}
}

func TestUpstreamError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})
	_, err := c.ListGames(context.Background(), "343")
	if err == nil || !strings.Contains(err.Error(), "status=503") {
		t.Fatalf("err = %v, want status 503", err)
	}
}

func TestMalformedDate(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"GameId":1,"ScheduledDate":"next tuesday"}]`))
	})
	if _, err := c.ListGames(context.Background(), "1"); err == nil {
		t.Fatal("expected a decoding error")
	}
}

func TestContextCancelled(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.ListLeagues(ctx); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
