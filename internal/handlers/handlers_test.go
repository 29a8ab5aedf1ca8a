package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/clock"
	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
	"github.com/trentd187/hockey-gamesheet/internal/ledger"
	"github.com/trentd187/hockey-gamesheet/internal/models"
)

type fakeProvider struct {
	err error
}

func (f fakeProvider) ListLeagues(context.Context) ([]models.League, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.League{{ID: "343", Name: "Hobby League A"}}, nil
}

func (f fakeProvider) ListGames(_ context.Context, leagueID string) ([]models.Game, error) {
	if f.err != nil {
		return nil, f.err
	}
	if leagueID != "343" {
		return nil, nil
	}
	return []models.Game{{
		ID:       "1201",
		LeagueID: "343",
		HomeTeam: models.Team{ID: "343:ice-wolves", Name: "Ice Wolves", Players: []models.Player{
			{Number: "9", Name: "Forsberg"},
			{Number: "13", Name: "Sundin"},
		}},
		AwayTeam: models.Team{ID: "343:frost-giants", Name: "Frost Giants", Players: []models.Player{
			{Number: "99", Name: "Gretzky"},
		}},
		ScheduledAt: time.Date(2026, 1, 10, 19, 30, 0, 0, time.UTC),
		Venue:       "Rink 2",
	}}, nil
}

type fakeRosters struct {
	saved map[string][]models.Player
}

func (f *fakeRosters) SaveRoster(_ context.Context, teamID string, players []models.Player) error {
	f.saved[teamID] = players
	return nil
}

type idleTicker struct{ ch chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.ch }
func (t idleTicker) Stop()               {}

type testServer struct {
	t       *testing.T
	app     *fiber.App
	rosters *fakeRosters
}

func newTestServer(t *testing.T, p fakeProvider) *testServer {
	t.Helper()
	registry := gamesheet.NewRegistry(gamesheet.WithClockOptions(clock.WithTicker(func(time.Duration) clock.Ticker {
		return idleTicker{ch: make(chan time.Time)}
	})))
	rosters := &fakeRosters{saved: map[string][]models.Player{}}
	app := fiber.New()
	Mount(app, Deps{Provider: p, Rosters: rosters, Registry: registry})
	t.Cleanup(func() { registry.Delete("1201") })
	return &testServer{t: t, app: app, rosters: rosters}
}

// do sends a request and decodes the JSON response into out (when non-nil).
func (ts *testServer) do(method, path string, body any, out any) int {
	ts.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			ts.t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.app.Test(req)
	if err != nil {
		ts.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			ts.t.Fatalf("%s %s: decoding: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

const sheet = "/api/v1/sheets/1201"

func (ts *testServer) openSheet() {
	ts.t.Helper()
	if code := ts.do("POST", "/api/v1/leagues/343/games/1201/sheet", nil, nil); code != fiber.StatusCreated {
		ts.t.Fatalf("open sheet status = %d, want 201", code)
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, fakeProvider{})
	var body map[string]any
	if code := ts.do("GET", "/health", nil, &body); code != fiber.StatusOK || body["status"] != "ok" {
		t.Fatalf("health = %d %v", code, body)
	}
}

func TestLeaguesAndGames(t *testing.T) {
	ts := newTestServer(t, fakeProvider{})

	var leagues []models.League
	if code := ts.do("GET", "/api/v1/leagues", nil, &leagues); code != fiber.StatusOK || len(leagues) != 1 {
		t.Fatalf("leagues = %d %+v", code, leagues)
	}

	var games []GameResponse
	ts.do("GET", "/api/v1/leagues/343/games", nil, &games)
	if len(games) != 1 || games[0].HomeTeam != "Ice Wolves" || games[0].Open {
		t.Fatalf("games = %+v", games)
	}
	if games[0].ScheduledAt != "2026-01-10T19:30:00Z" {
		t.Fatalf("scheduledAt = %s", games[0].ScheduledAt)
	}

	ts.openSheet()
	ts.do("GET", "/api/v1/leagues/343/games", nil, &games)
	if !games[0].Open {
		t.Fatal("game should be marked open")
	}
}

func TestProviderFailure(t *testing.T) {
	ts := newTestServer(t, fakeProvider{err: errors.New("offline")})
	if code := ts.do("GET", "/api/v1/leagues", nil, nil); code != fiber.StatusBadGateway {
		t.Fatalf("status = %d, want 502", code)
	}
}

func TestOpenSheet(t *testing.T) {
	ts := newTestServer(t, fakeProvider{})
	ts.openSheet()

	var snap gamesheet.Snapshot
	if code := ts.do("POST", "/api/v1/leagues/343/games/1201/sheet", nil, &snap); code != fiber.StatusOK {
		t.Fatalf("reopen status = %d, want 200", code)
	}
	if snap.State != models.GameStatusSetup || snap.Game.Venue != "Rink 2" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if code := ts.do("POST", "/api/v1/leagues/343/games/9999/sheet", nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("unknown game status = %d, want 404", code)
	}
	var nf map[string]string
	if code := ts.do("POST", "/api/v1/leagues/1/games/5555/sheet", nil, &nf); code != fiber.StatusNotFound {
		t.Fatalf("unknown league status = %d, want 404", code)
	}
	if nf["error"] != "league 1: not found" {
		t.Fatalf("unknown league error = %q", nf["error"])
	}
	if code := ts.do("GET", "/api/v1/sheets/9999", nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("unknown sheet status = %d, want 404", code)
	}
}

func TestResponsesUseSnakeCase(t *testing.T) {
	ts := newTestServer(t, fakeProvider{})
	ts.openSheet()

	var snap map[string]json.RawMessage
	ts.do("GET", sheet, nil, &snap)
	for _, key := range []string{"game_id", "goal_count", "penalty_count", "clock"} {
		if _, ok := snap[key]; !ok {
			t.Fatalf("snapshot has no %q field: %v", key, snap)
		}
	}
	var game map[string]json.RawMessage
	if err := json.Unmarshal(snap["game"], &game); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"league_id", "home_team", "away_team", "scheduled_at"} {
		if _, ok := game[key]; !ok {
			t.Fatalf("game has no %q field", key)
		}
	}

	var games []map[string]any
	ts.do("GET", "/api/v1/leagues/343/games", nil, &games)
	if len(games) != 1 || games[0]["home_team"] != "Ice Wolves" {
		t.Fatalf("games = %+v", games)
	}
}

func TestRosterEditing(t *testing.T) {
	ts := newTestServer(t, fakeProvider{})
	ts.openSheet()

	if code := ts.do("POST", sheet+"/roster/away/players", nil, nil); code != fiber.StatusOK {
		t.Fatalf("add status = %d", code)
	}
	ts.do("PATCH", sheet+"/roster/away/players/1", UpdatePlayerRequest{Field: "number", Value: "4"}, nil)
	var snap gamesheet.Snapshot
	ts.do("PATCH", sheet+"/roster/away/players/1", UpdatePlayerRequest{Field: "name", Value: "Orr"}, &snap)
	if got := snap.Game.AwayTeam.Players; len(got) != 2 || got[0].Name != "Orr" {
		t.Fatalf("away roster = %+v, want Orr first", got)
	}

	if code := ts.do("PATCH", sheet+"/roster/away/players/7", UpdatePlayerRequest{Field: "name", Value: "x"}, nil); code != fiber.StatusBadRequest {
		t.Fatalf("out of range status = %d, want 400", code)
	}
	if code := ts.do("PATCH", sheet+"/roster/away/players/0", UpdatePlayerRequest{Field: "position", Value: "x"}, nil); code != fiber.StatusBadRequest {
		t.Fatalf("unknown field status = %d, want 400", code)
	}
	if code := ts.do("POST", sheet+"/roster/bench/players", nil, nil); code != fiber.StatusBadRequest {
		t.Fatalf("unknown side status = %d, want 400", code)
	}
	if code := ts.do("DELETE", sheet+"/roster/away/players/0", nil, nil); code != fiber.StatusOK {
		t.Fatalf("remove status = %d", code)
	}

	if code := ts.do("POST", sheet+"/start", nil, nil); code != fiber.StatusOK {
		t.Fatalf("start status = %d", code)
	}
	if code := ts.do("POST", sheet+"/roster/away/players", nil, nil); code != fiber.StatusConflict {
		t.Fatalf("add after start status = %d, want 409", code)
	}
	if got := ts.rosters.saved["343:frost-giants"]; len(got) != 1 || got[0].Name != "Orr" {
		t.Fatalf("saved away roster = %+v", got)
	}
}

func TestRecordingGoalsAndPenalties(t *testing.T) {
	ts := newTestServer(t, fakeProvider{})
	ts.openSheet()

	if code := ts.do("POST", sheet+"/goals/form", OpenFormRequest{Side: models.SideHome}, nil); code != fiber.StatusConflict {
		t.Fatalf("form in setup status = %d, want 409", code)
	}
	ts.do("POST", sheet+"/start", nil, nil)

	var snap gamesheet.Snapshot
	ts.do("POST", sheet+"/clock/period", SetPeriodRequest{Period: "2"}, nil)
	ts.do("POST", sheet+"/clock/adjust", AdjustClockRequest{Delta: 90}, &snap)
	if snap.Clock.Period != clock.P2 || snap.Clock.Display != "01:30" {
		t.Fatalf("clock = %+v, want P2 01:30", snap.Clock)
	}
	if code := ts.do("POST", sheet+"/clock/period", SetPeriodRequest{Period: "P9"}, nil); code != fiber.StatusBadRequest {
		t.Fatalf("bad period status = %d, want 400", code)
	}

	var form gamesheet.EditContext
	ts.do("POST", sheet+"/goals/form", OpenFormRequest{Side: models.SideHome}, &form)
	if form.Goal == nil || form.Goal.Time != "01:30" || form.Goal.Period != clock.P2 {
		t.Fatalf("form = %+v", form)
	}

	var verr map[string]string
	code := ts.do("POST", sheet+"/goals", gamesheet.GoalInput{Period: clock.P2, Time: "01:30", ScorerNumber: "99"}, &verr)
	if code != fiber.StatusBadRequest || verr["field"] != "scorer_number" {
		t.Fatalf("invalid goal = %d %v", code, verr)
	}

	var g ledger.Goal
	code = ts.do("POST", sheet+"/goals", gamesheet.GoalInput{Period: clock.P2, Time: "01:30", ScorerNumber: "9", Assist1Number: "13"}, &g)
	if code != fiber.StatusCreated || g.ID == "" || g.Scorer.Name != "Forsberg" || g.Assist1 == nil || g.Assist1.Name != "Sundin" {
		t.Fatalf("goal = %d %+v", code, g)
	}

	ts.do("POST", sheet+"/penalties/form", OpenFormRequest{Side: models.SideAway}, nil)
	if code := ts.do("POST", sheet+"/goals", gamesheet.GoalInput{Period: clock.P2, Time: "02:00", ScorerNumber: "9"}, nil); code != fiber.StatusConflict {
		t.Fatalf("goal with penalty form open = %d, want 409", code)
	}
	var p ledger.Penalty
	code = ts.do("POST", sheet+"/penalties", gamesheet.PenaltyInput{Period: clock.P2, Time: "05:00", PlayerNumber: "99", Minutes: 4, Type: "High-Sticking"}, &p)
	if code != fiber.StatusCreated || p.EndTime != "09:00" {
		t.Fatalf("penalty = %d %+v", code, p)
	}

	if code := ts.do("POST", sheet+"/goals/form", OpenFormRequest{ID: "missing"}, nil); code != fiber.StatusNotFound {
		t.Fatalf("edit unknown goal = %d, want 404", code)
	}
	if code := ts.do("DELETE", sheet+"/goals/missing", nil, nil); code != fiber.StatusOK {
		t.Fatalf("delete unknown goal = %d, want 200", code)
	}

	ts.do("GET", sheet, nil, &snap)
	if snap.Score != (gamesheet.Score{Home: 1, Away: 0}) || snap.PenaltyCount != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	var timeline []ledger.Event
	ts.do("GET", sheet+"/timeline", nil, &timeline)
	if len(timeline) != 2 || timeline[0].Kind != ledger.KindGoal || timeline[1].Kind != ledger.KindPenalty {
		t.Fatalf("timeline = %+v", timeline)
	}

	if code := ts.do("POST", sheet+"/end", nil, nil); code != fiber.StatusOK {
		t.Fatalf("end status = %d", code)
	}
	if code := ts.do("POST", sheet+"/end", nil, nil); code != fiber.StatusConflict {
		t.Fatalf("second end status = %d, want 409", code)
	}
	if code := ts.do("DELETE", sheet+"/goals/"+g.ID, nil, nil); code != fiber.StatusConflict {
		t.Fatalf("delete after end status = %d, want 409", code)
	}
}

func TestCloseSheet(t *testing.T) {
	ts := newTestServer(t, fakeProvider{})
	ts.openSheet()
	if code := ts.do("DELETE", sheet, nil, nil); code != fiber.StatusNoContent {
		t.Fatalf("close status = %d, want 204", code)
	}
	if code := ts.do("GET", sheet, nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("get after close status = %d, want 404", code)
	}
}
