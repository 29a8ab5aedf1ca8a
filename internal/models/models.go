// Package models defines the league data the game sheet is seeded from:
// leagues, their scheduled games, and the two teams (with rosters) playing each game.
//
// The same structs serve two purposes:
//   - they are the values returned by a league/game provider (the remote hockey data API)
//   - they map to the tables of the optional PostgreSQL cache through GORM struct tags
//
// Goals, penalties and the clock are NOT modelled here. They only ever live in memory
// inside a game sheet session and are never written to the database.
package models

import (
	"time"

	// uuid provides identifiers for roster rows, which the provider does not number itself.
	"github.com/google/uuid"
)

// --- Enums ---

// GameStatus mirrors the lifecycle of a game sheet session.
// A game fetched from the provider always starts as "setup"; the session's working
// copy moves it to "active" and finally "ended".
type GameStatus string

const (
	GameStatusSetup  GameStatus = "setup"  // Rosters are being edited; the game has not started
	GameStatusActive GameStatus = "active" // Clock running, goals and penalties being recorded
	GameStatusEnded  GameStatus = "ended"  // Sheet is final and read-only
)

// Side identifies one of the two teams in a game.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Valid reports whether s is home or away.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// --- Models ---

// League is a competition that schedules games, e.g. "Hobby League Division A".
type League struct {
	ID        string    `gorm:"primaryKey" json:"id"` // Provider's league ID, kept as a string
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Games     []Game    `gorm:"foreignKey:LeagueID" json:"-"`
}

// Player is one row of a team roster.
// Number is the jersey number as typed by the user. It is usually numeric but the
// model does not require it, and two players may share a number (last edit wins).
type Player struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"-"`
	TeamID string    `gorm:"not null;index" json:"-"`
	Number string    `gorm:"not null" json:"number"`
	Name   string    `gorm:"not null" json:"name"`
}

// Team is one side of a game together with its roster.
type Team struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Icon      *string   `json:"icon,omitempty"` // Optional logo URL; pointer = nullable
	Players   []Player  `gorm:"foreignKey:TeamID" json:"players"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Game is a scheduled match between two teams in a league.
// Values returned by the provider are treated as a read-only seed: a session
// works on its own deep copy (see Clone).
type Game struct {
	ID          string     `gorm:"primaryKey" json:"id"`                                    // Provider's game ID, kept as a string
	LeagueID    string     `gorm:"not null;index" json:"league_id"`                         // League that scheduled the game
	Name        string     `json:"name,omitempty"`                                          // Schedule label, e.g. "Round 4"
	Division    string     `json:"division,omitempty"`                                      // Division within the league, if any
	HomeTeamID  string     `gorm:"not null" json:"-"`                                       // Foreign key for HomeTeam
	HomeTeam    Team       `gorm:"foreignKey:HomeTeamID" json:"home_team"`                  // Home side with its roster
	AwayTeamID  string     `gorm:"not null" json:"-"`                                       // Foreign key for AwayTeam
	AwayTeam    Team       `gorm:"foreignKey:AwayTeamID" json:"away_team"`                  // Away side with its roster
	ScheduledAt time.Time  `gorm:"not null" json:"scheduled_at"`                            // Face-off time
	Venue       string     `gorm:"not null;default:''" json:"venue"`                        // Rink name; empty when the provider has none
	Status      GameStatus `gorm:"type:varchar(16);not null;default:'setup'" json:"status"` // Lifecycle of the sheet, see GameStatus
	CreatedAt   time.Time  `json:"-"`                                                       // Set by GORM on insert
	UpdatedAt   time.Time  `json:"-"`                                                       // Set by GORM on every save
}

// Team returns the team playing on the given side.
func (g *Game) Team(side Side) *Team {
	if side == SideAway {
		return &g.AwayTeam
	}
	return &g.HomeTeam
}

// Clone returns a deep copy of the game, so that edits to the copy's rosters
// never reach the provider's value.
func (g Game) Clone() Game {
	c := g
	c.HomeTeam = g.HomeTeam.Clone()
	c.AwayTeam = g.AwayTeam.Clone()
	return c
}

// Clone returns a deep copy of the team.
func (t Team) Clone() Team {
	c := t
	if t.Icon != nil {
		icon := *t.Icon
		c.Icon = &icon
	}
	c.Players = make([]Player, len(t.Players))
	copy(c.Players, t.Players)
	return c
}

// PlayerByNumber finds the roster entry with the given jersey number.
// If numbers collide, the last matching row wins.
func (t Team) PlayerByNumber(number string) (Player, bool) {
	var (
		found Player
		ok    bool
	)
	for _, p := range t.Players {
		if p.Number == number {
			found, ok = p, true
		}
	}
	return found, ok
}
