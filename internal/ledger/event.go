// Package ledger records the goals and penalties of one game and derives the
// views the game sheet shows: the score, the most-recent-first lists, and the
// per-period grouping.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/trentd187/hockey-gamesheet/internal/clock"
	"github.com/trentd187/hockey-gamesheet/internal/models"
)

// Situation is the manpower situation a goal was scored in.
type Situation string

const (
	SituationEven        Situation = "EV" // Even strength
	SituationPowerPlay   Situation = "PP"
	SituationShortHanded Situation = "SH"
	SituationEmptyNet    Situation = "EN"
	SituationPenaltyShot Situation = "PS"
)

// Situations lists every situation in form order.
var Situations = []Situation{SituationEven, SituationPowerPlay, SituationShortHanded, SituationEmptyNet, SituationPenaltyShot}

// Valid reports whether s is a known situation.
func (s Situation) Valid() bool {
	switch s {
	case SituationEven, SituationPowerPlay, SituationShortHanded, SituationEmptyNet, SituationPenaltyShot:
		return true
	}
	return false
}

// ShotType is how the goal was shot.
type ShotType string

const (
	ShotWrist      ShotType = "Wrist"
	ShotSlap       ShotType = "Slap"
	ShotSnap       ShotType = "Snap"
	ShotBackhand   ShotType = "Backhand"
	ShotDeflection ShotType = "Deflection"
	ShotTip        ShotType = "Tip"
	ShotWrap       ShotType = "Wrap"
)

// ShotTypes lists every shot type in form order.
var ShotTypes = []ShotType{ShotWrist, ShotSlap, ShotSnap, ShotBackhand, ShotDeflection, ShotTip, ShotWrap}

// Valid reports whether s is a known shot type.
func (s ShotType) Valid() bool {
	for _, t := range ShotTypes {
		if s == t {
			return true
		}
	}
	return false
}

// PenaltyMinutes are the durations offered by the penalty form. Any positive
// number of minutes is accepted.
var PenaltyMinutes = []int{2, 4, 5, 10}

// PenaltyTypes are suggestions for the free-text penalty type field.
var PenaltyTypes = []string{
	"Boarding",
	"Charging",
	"Checking from Behind",
	"Cross-Checking",
	"Delay of Game",
	"Elbowing",
	"Fighting",
	"High-Sticking",
	"Holding",
	"Hooking",
	"Interference",
	"Roughing",
	"Slashing",
	"Too Many Men",
	"Tripping",
	"Unsportsmanlike Conduct",
}

// PlayerRef names the player involved in an event by jersey number and name.
type PlayerRef struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// RefFor converts a roster player into a PlayerRef.
func RefFor(p models.Player) PlayerRef {
	return PlayerRef{Number: p.Number, Name: p.Name}
}

// Goal is a goal scored by one side.
type Goal struct {
	ID        string       `json:"id"`                // Assigned by the ledger when the goal is added
	Period    clock.Period `json:"period"`            // Period the goal was scored in
	Time      string       `json:"time"`              // Display time within the period, MM:SS
	Team      models.Side  `json:"team"`              // "home" or "away"
	Scorer    PlayerRef    `json:"scorer"`            // Player who scored
	Assist1   *PlayerRef   `json:"assist1,omitempty"` // Optional primary assist; null if none
	Assist2   *PlayerRef   `json:"assist2,omitempty"` // Optional secondary assist; null if none
	Situation Situation    `json:"situation"`         // "EV", "PP", "SH", "EN" or "PS"
	ShotType  ShotType     `json:"shot_type"`         // How the puck was shot
}

// Penalty is a penalty assessed against a player.
type Penalty struct {
	ID        string       `json:"id"`         // Assigned by the ledger when the penalty is added
	Period    clock.Period `json:"period"`     // Period the penalty was called in
	Time      string       `json:"time"`       // Display time within the period, MM:SS
	Team      models.Side  `json:"team"`       // "home" or "away"
	Player    PlayerRef    `json:"player"`     // Penalized player
	Minutes   int          `json:"minutes"`    // Length of the penalty
	Type      string       `json:"type"`       // Infraction, e.g. "Tripping"
	StartTime string       `json:"start_time"` // When the penalty starts to count, MM:SS
	EndTime   string       `json:"end_time"`   // When the player may return, MM:SS
}

// EventPeriod and EventTime let goals and penalties share the ordering and
// grouping helpers.
func (g Goal) EventPeriod() clock.Period { return g.Period }
func (g Goal) EventTime() string         { return g.Time }

func (p Penalty) EventPeriod() clock.Period { return p.Period }
func (p Penalty) EventTime() string         { return p.Time }

// Timed is implemented by every record the ledger can order.
type Timed interface {
	EventPeriod() clock.Period
	EventTime() string
}

// RankingOffset is the absolute ordering key of a record.
func RankingOffset(r Timed) int {
	return clock.RankingOffset(r.EventPeriod(), r.EventTime())
}

// PenaltyEndTime adds minutes to a MM:SS start time.
// The result is not clamped to the end of the period: a 10 minute penalty at
// 19:00 ends at "29:00".
func PenaltyEndTime(start string, minutes int) string {
	return clock.FormatTime(clock.ParseTime(start) + minutes*60)
}

// ErrInvalidRecord is wrapped by every validation failure below.
var ErrInvalidRecord = errors.New("invalid record")

// Validate checks that the goal is complete. Callers run it before handing the
// goal to the ledger, which never validates on its own.
func (g Goal) Validate() error {
	switch {
	case !g.Period.Valid():
		return fmt.Errorf("%w: period %q", ErrInvalidRecord, g.Period)
	case strings.TrimSpace(g.Time) == "":
		return fmt.Errorf("%w: time is required", ErrInvalidRecord)
	case !g.Team.Valid():
		return fmt.Errorf("%w: team %q", ErrInvalidRecord, g.Team)
	case g.Scorer.Number == "" || g.Scorer.Name == "":
		return fmt.Errorf("%w: scorer is required", ErrInvalidRecord)
	case !g.Situation.Valid():
		return fmt.Errorf("%w: situation %q", ErrInvalidRecord, g.Situation)
	case !g.ShotType.Valid():
		return fmt.Errorf("%w: shot type %q", ErrInvalidRecord, g.ShotType)
	}
	if g.Assist1 != nil && g.Assist1.Number == g.Scorer.Number {
		return fmt.Errorf("%w: first assist is the scorer", ErrInvalidRecord)
	}
	if g.Assist2 != nil {
		if g.Assist2.Number == g.Scorer.Number {
			return fmt.Errorf("%w: second assist is the scorer", ErrInvalidRecord)
		}
		if g.Assist1 != nil && g.Assist1.Number == g.Assist2.Number {
			return fmt.Errorf("%w: assists must be different players", ErrInvalidRecord)
		}
	}
	return nil
}

// Validate checks that the penalty is complete.
func (p Penalty) Validate() error {
	switch {
	case !p.Period.Valid():
		return fmt.Errorf("%w: period %q", ErrInvalidRecord, p.Period)
	case strings.TrimSpace(p.Time) == "":
		return fmt.Errorf("%w: time is required", ErrInvalidRecord)
	case !p.Team.Valid():
		return fmt.Errorf("%w: team %q", ErrInvalidRecord, p.Team)
	case p.Player.Number == "" || p.Player.Name == "":
		return fmt.Errorf("%w: player is required", ErrInvalidRecord)
	case p.Minutes <= 0:
		return fmt.Errorf("%w: minutes must be positive", ErrInvalidRecord)
	case strings.TrimSpace(p.Type) == "":
		return fmt.Errorf("%w: penalty type is required", ErrInvalidRecord)
	case strings.TrimSpace(p.StartTime) == "" || strings.TrimSpace(p.EndTime) == "":
		return fmt.Errorf("%w: start and end time are required", ErrInvalidRecord)
	}
	return nil
}

// Kind tags an Event as a goal or a penalty.
type Kind string

const (
	KindGoal    Kind = "goal"
	KindPenalty Kind = "penalty"
)

// Event is a goal or a penalty on the unified timeline. Exactly one of Goal and
// Penalty is set, matching Kind.
type Event struct {
	Kind    Kind     `json:"kind"`
	Goal    *Goal    `json:"goal,omitempty"`
	Penalty *Penalty `json:"penalty,omitempty"`
}

// EventPeriod returns the period of the wrapped record.
func (e Event) EventPeriod() clock.Period {
	if e.Kind == KindGoal {
		return e.Goal.Period
	}
	return e.Penalty.Period
}

// EventTime returns the display time of the wrapped record.
func (e Event) EventTime() string {
	if e.Kind == KindGoal {
		return e.Goal.Time
	}
	return e.Penalty.Time
}
