package gamesheet

import (
	"github.com/trentd187/hockey-gamesheet/internal/clock"
	"github.com/trentd187/hockey-gamesheet/internal/ledger"
	"github.com/trentd187/hockey-gamesheet/internal/models"
)

// Score is the goal tally of a game.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Snapshot is the read model of a game sheet handed to the display layer.
type Snapshot struct {
	GameID       string                               `json:"game_id"`        // ID of the game this sheet records
	State        models.GameStatus                    `json:"state"`          // "setup", "active" or "ended"
	Game         models.Game                          `json:"game"`           // Working copy with the edited rosters
	Rosters      map[models.Side][]models.Player      `json:"rosters"`        // Raw editor rows, for the setup screen
	Score        Score                                `json:"score"`          // Goal tally per side
	Clock        clock.Update                         `json:"clock"`          // Current period, time and running flag
	Goals        []ledger.PeriodGroup[ledger.Goal]    `json:"goals"`          // Goals grouped by period, latest first
	Penalties    []ledger.PeriodGroup[ledger.Penalty] `json:"penalties"`      // Penalties grouped by period, latest first
	GoalCount    int                                  `json:"goal_count"`     // Total goals across all periods
	PenaltyCount int                                  `json:"penalty_count"`  // Total penalties across all periods
	Edit         *EditContext                         `json:"edit,omitempty"` // The open goal or penalty form, if any
}

// Snapshot captures the whole sheet in one consistent read.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	home, away := s.ledger.Score()
	goals := s.ledger.OrderedGoals()
	penalties := s.ledger.OrderedPenalties()

	snap := Snapshot{
		GameID: s.seed.ID,
		State:  s.state,
		Game:   s.game.Clone(),
		Rosters: map[models.Side][]models.Player{
			models.SideHome: s.home.Rows(),
			models.SideAway: s.away.Rows(),
		},
		Score:        Score{Home: home, Away: away},
		Clock:        s.clock.Snapshot(),
		Goals:        ledger.GroupByPeriod(goals),
		Penalties:    ledger.GroupByPeriod(penalties),
		GoalCount:    len(goals),
		PenaltyCount: len(penalties),
	}
	if s.edit != nil {
		edit := *s.edit
		snap.Edit = &edit
	}
	return snap
}
