// Package hockeydata reads leagues and schedules from the hockeydata.net league API.
package hockeydata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trentd187/hockey-gamesheet/internal/models"
)

// DefaultBaseURL is the public hockeydata API endpoint.
const DefaultBaseURL = "https://los.hockeydata.net/los/data-asp/api"

// Client handles hockeydata API requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	customer   string
	password   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default 15 second timeout client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client. An empty baseURL uses DefaultBaseURL.
func New(baseURL, customer, password string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		customer: customer,
		password: password,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listItems is the envelope of GetListOfAllLeagues.
type listItems struct {
	Liste []struct {
		ID          int    `json:"Id"`
		DisplayText string `json:"DisplayText"`
	} `json:"Liste"`
}

// game is one entry of GetAllGamesOfLeagueAsJson. Fields the sheet does not
// use (rounds, roster visibility, download flags) are left out.
type game struct {
	GameID        int       `json:"GameId"`
	GameGUID      string    `json:"GameGuid"`
	GameName      string    `json:"Gamename"`
	DivisionName  string    `json:"DivisionName"`
	HomeTeamName  string    `json:"HomeTeamname"`
	AwayTeamName  string    `json:"AwayTeamname"`
	LocationName  string    `json:"LocationName"`
	ScheduledDate timestamp `json:"ScheduledDate"`
	GameStatus    int       `json:"GameStatus"`
}

// timestamp accepts the zone-less date format the API emits as well as RFC 3339.
type timestamp struct{ time.Time }

var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parsing scheduled date %q", s)
}

// ListLeagues returns every league visible to the configured customer.
func (c *Client) ListLeagues(ctx context.Context) ([]models.League, error) {
	q := url.Values{}
	q.Set("customer", c.customer)
	q.Set("password", "")

	var items listItems
	if err := c.fetch(ctx, "GetListOfAllLeagues", q, &items); err != nil {
		return nil, fmt.Errorf("listing leagues: %w", err)
	}

	leagues := make([]models.League, 0, len(items.Liste))
	for _, it := range items.Liste {
		leagues = append(leagues, models.League{
			ID:   strconv.Itoa(it.ID),
			Name: it.DisplayText,
		})
	}
	log.Printf("hockeydata: fetched %d leagues", len(leagues))
	return leagues, nil
}

// ListGames returns the full schedule of a league. Rosters are not part of
// the schedule; both teams come back with an empty player list.
func (c *Client) ListGames(ctx context.Context, leagueID string) ([]models.Game, error) {
	q := url.Values{}
	q.Set("leagueId", leagueID)
	q.Set("password", c.password)
	q.Set("selectionOption", "ALL")
	q.Set("specificDate", "")

	var raw []game
	if err := c.fetch(ctx, "GetAllGamesOfLeagueAsJson", q, &raw); err != nil {
		return nil, fmt.Errorf("listing games of league %s: %w", leagueID, err)
	}

	games := make([]models.Game, 0, len(raw))
	for _, g := range raw {
		games = append(games, toGame(leagueID, g))
	}
	log.Printf("hockeydata: fetched %d games for league %s", len(games), leagueID)
	return games, nil
}

func toGame(leagueID string, g game) models.Game {
	id := strconv.Itoa(g.GameID)
	home := models.Team{ID: TeamID(leagueID, g.HomeTeamName), Name: g.HomeTeamName, Players: []models.Player{}}
	away := models.Team{ID: TeamID(leagueID, g.AwayTeamName), Name: g.AwayTeamName, Players: []models.Player{}}
	return models.Game{
		ID:          id,
		LeagueID:    leagueID,
		Name:        g.GameName,
		Division:    g.DivisionName,
		HomeTeamID:  home.ID,
		HomeTeam:    home,
		AwayTeamID:  away.ID,
		AwayTeam:    away,
		ScheduledAt: g.ScheduledDate.Time,
		Venue:       g.LocationName,
		Status:      models.GameStatusSetup,
	}
}

// TeamID derives a stable team ID from the league and the team name, since the
// schedule does not number teams. The same team gets the same ID in every game
// of its league.
func TeamID(leagueID, name string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	return leagueID + ":" + slug
}

// fetch makes an HTTP GET request and decodes the JSON body into out.
func (c *Client) fetch(ctx context.Context, path string, q url.Values, out any) error {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("hockeydata API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
