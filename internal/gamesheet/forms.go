package gamesheet

import (
	"errors"
	"strings"

	"github.com/trentd187/hockey-gamesheet/internal/clock"
	"github.com/trentd187/hockey-gamesheet/internal/ledger"
	"github.com/trentd187/hockey-gamesheet/internal/models"
)

// Defaults for a new goal or penalty form.
const (
	DefaultSituation      = ledger.SituationEven
	DefaultShotType       = ledger.ShotWrist
	DefaultPenaltyMinutes = 2
)

// EditContext is the single goal or penalty form that may be open at a time.
// TargetID is empty for a new record and holds the record's id when editing.
// Exactly one of Goal and Penalty is set, matching Kind, and holds the values
// the form is pre-filled with.
type EditContext struct {
	Kind     ledger.Kind     `json:"kind"`                // "goal" or "penalty"
	Side     models.Side     `json:"side"`                // Team the record belongs to
	TargetID string          `json:"target_id,omitempty"` // Empty for a new record
	Goal     *ledger.Goal    `json:"goal,omitempty"`      // Pre-filled values when Kind is "goal"
	Penalty  *ledger.Penalty `json:"penalty,omitempty"`   // Pre-filled values when Kind is "penalty"
}

// Editing reports whether the form edits an existing record.
func (c EditContext) Editing() bool {
	return c.TargetID != ""
}

// GoalInput is a submitted goal form. Players are chosen by jersey number and
// resolved against the scoring side's roster.
type GoalInput struct {
	Period        clock.Period     `json:"period"`                   // "P1", "P2", "P3" or "OT"
	Time          string           `json:"time"`                     // Display time within the period, MM:SS
	ScorerNumber  string           `json:"scorer_number"`            // Required: jersey number of the scorer
	Assist1Number string           `json:"assist1_number,omitempty"` // Optional: primary assist
	Assist2Number string           `json:"assist2_number,omitempty"` // Optional: secondary assist
	Situation     ledger.Situation `json:"situation"`                // Defaults to even strength when empty
	ShotType      ledger.ShotType  `json:"shot_type"`                // Defaults to a wrist shot when empty
}

// PenaltyInput is a submitted penalty form. StartTime defaults to Time and
// EndTime is derived from StartTime and Minutes when left empty.
type PenaltyInput struct {
	Period       clock.Period `json:"period"`               // "P1", "P2", "P3" or "OT"
	Time         string       `json:"time"`                 // When the infraction was called, MM:SS
	PlayerNumber string       `json:"player_number"`        // Required: jersey number of the penalized player
	Minutes      int          `json:"minutes"`              // 2, 4, 5 or 10
	Type         string       `json:"type"`                 // Infraction, e.g. "Hooking"
	StartTime    string       `json:"start_time,omitempty"` // Optional: defaults to Time
	EndTime      string       `json:"end_time,omitempty"`   // Optional: defaults to StartTime plus Minutes
}

// EditContext returns the open form, if any.
func (s *Session) EditContext() (EditContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return EditContext{}, false
	}
	return *s.edit, true
}

// OpenGoal opens a new goal form for side, pre-filled with the clock's current
// period and time. Any open form is replaced.
func (s *Session) OpenGoal(side models.Side) (EditContext, error) {
	return s.open(side, func() (EditContext, error) {
		u := s.clock.Snapshot()
		return EditContext{
			Kind: ledger.KindGoal,
			Side: side,
			Goal: &ledger.Goal{
				Period:    u.Period,
				Time:      u.Display,
				Team:      side,
				Situation: DefaultSituation,
				ShotType:  DefaultShotType,
			},
		}, nil
	})
}

// EditGoal opens the form for an existing goal, pre-filled from the record.
func (s *Session) EditGoal(id string) (EditContext, error) {
	return s.open("", func() (EditContext, error) {
		g, ok := s.ledger.Goal(id)
		if !ok {
			return EditContext{}, ErrEventNotFound
		}
		return EditContext{Kind: ledger.KindGoal, Side: g.Team, TargetID: id, Goal: &g}, nil
	})
}

// OpenPenalty opens a new penalty form for side, pre-filled from the clock
// with a two minute penalty starting now.
func (s *Session) OpenPenalty(side models.Side) (EditContext, error) {
	return s.open(side, func() (EditContext, error) {
		u := s.clock.Snapshot()
		return EditContext{
			Kind: ledger.KindPenalty,
			Side: side,
			Penalty: &ledger.Penalty{
				Period:    u.Period,
				Time:      u.Display,
				Team:      side,
				Minutes:   DefaultPenaltyMinutes,
				StartTime: u.Display,
				EndTime:   ledger.PenaltyEndTime(u.Display, DefaultPenaltyMinutes),
			},
		}, nil
	})
}

// EditPenalty opens the form for an existing penalty, pre-filled from the record.
func (s *Session) EditPenalty(id string) (EditContext, error) {
	return s.open("", func() (EditContext, error) {
		p, ok := s.ledger.Penalty(id)
		if !ok {
			return EditContext{}, ErrEventNotFound
		}
		return EditContext{Kind: ledger.KindPenalty, Side: p.Team, TargetID: id, Penalty: &p}, nil
	})
}

// CancelEdit closes the open form without saving. Closing when nothing is open
// is allowed.
func (s *Session) CancelEdit() error {
	s.mu.Lock()
	if err := s.requireActiveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.edit = nil
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeEdit})
	return nil
}

// closeEditLocked drops an edit form that targets a record being deleted and
// reports whether it did.
func (s *Session) closeEditLocked(kind ledger.Kind, id string) bool {
	if s.edit == nil || s.edit.Kind != kind || s.edit.TargetID != id {
		return false
	}
	s.edit = nil
	return true
}

// open installs the context built by build as the only open form. An empty
// side skips the side check (edit forms take the side from the record).
func (s *Session) open(side models.Side, build func() (EditContext, error)) (EditContext, error) {
	s.mu.Lock()
	if err := s.requireActiveLocked(); err != nil {
		s.mu.Unlock()
		return EditContext{}, err
	}
	if side != "" && !side.Valid() {
		s.mu.Unlock()
		return EditContext{}, ErrUnknownSide
	}
	ctx, err := build()
	if err != nil {
		s.mu.Unlock()
		return EditContext{}, err
	}
	s.edit = &ctx
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeEdit})
	return ctx, nil
}

// SubmitGoal saves the open goal form. A new form adds a goal; an edit form
// replaces the edited goal in place, keeping its id. The form closes on success
// and stays open when validation fails.
func (s *Session) SubmitGoal(in GoalInput) (ledger.Goal, error) {
	s.mu.Lock()
	if err := s.requireActiveLocked(); err != nil {
		s.mu.Unlock()
		return ledger.Goal{}, err
	}
	if s.edit == nil || s.edit.Kind != ledger.KindGoal {
		s.mu.Unlock()
		return ledger.Goal{}, ErrNoEditContext
	}
	ctx := *s.edit

	g, err := s.buildGoalLocked(ctx.Side, in)
	if err != nil {
		s.mu.Unlock()
		return ledger.Goal{}, err
	}
	if ctx.Editing() {
		s.ledger.UpdateGoal(ctx.TargetID, g)
		g.ID = ctx.TargetID
	} else {
		g = s.ledger.AddGoal(g)
	}
	s.edit = nil
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeLedger})
	return g, nil
}

// SubmitPenalty saves the open penalty form, like SubmitGoal.
func (s *Session) SubmitPenalty(in PenaltyInput) (ledger.Penalty, error) {
	s.mu.Lock()
	if err := s.requireActiveLocked(); err != nil {
		s.mu.Unlock()
		return ledger.Penalty{}, err
	}
	if s.edit == nil || s.edit.Kind != ledger.KindPenalty {
		s.mu.Unlock()
		return ledger.Penalty{}, ErrNoEditContext
	}
	ctx := *s.edit

	p, err := s.buildPenaltyLocked(ctx.Side, in)
	if err != nil {
		s.mu.Unlock()
		return ledger.Penalty{}, err
	}
	if ctx.Editing() {
		s.ledger.UpdatePenalty(ctx.TargetID, p)
		p.ID = ctx.TargetID
	} else {
		p = s.ledger.AddPenalty(p)
	}
	s.edit = nil
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeLedger})
	return p, nil
}

func (s *Session) buildGoalLocked(side models.Side, in GoalInput) (ledger.Goal, error) {
	team := s.game.Team(side)

	scorer, ok := team.PlayerByNumber(strings.TrimSpace(in.ScorerNumber))
	if !ok {
		return ledger.Goal{}, invalid("scorer_number", "player %q is not on the %s roster", in.ScorerNumber, side)
	}
	assist1, err := optionalPlayer(team, "assist1Number", in.Assist1Number)
	if err != nil {
		return ledger.Goal{}, err
	}
	assist2, err := optionalPlayer(team, "assist2Number", in.Assist2Number)
	if err != nil {
		return ledger.Goal{}, err
	}

	g := ledger.Goal{
		Period:    in.Period,
		Time:      strings.TrimSpace(in.Time),
		Team:      side,
		Scorer:    ledger.RefFor(scorer),
		Assist1:   assist1,
		Assist2:   assist2,
		Situation: in.Situation,
		ShotType:  in.ShotType,
	}
	if g.Situation == "" {
		g.Situation = DefaultSituation
	}
	if g.ShotType == "" {
		g.ShotType = DefaultShotType
	}
	if err := g.Validate(); err != nil {
		return ledger.Goal{}, recordError(err)
	}
	return g, nil
}

func (s *Session) buildPenaltyLocked(side models.Side, in PenaltyInput) (ledger.Penalty, error) {
	team := s.game.Team(side)

	player, ok := team.PlayerByNumber(strings.TrimSpace(in.PlayerNumber))
	if !ok {
		return ledger.Penalty{}, invalid("player_number", "player %q is not on the %s roster", in.PlayerNumber, side)
	}

	p := ledger.Penalty{
		Period:    in.Period,
		Time:      strings.TrimSpace(in.Time),
		Team:      side,
		Player:    ledger.RefFor(player),
		Minutes:   in.Minutes,
		Type:      strings.TrimSpace(in.Type),
		StartTime: strings.TrimSpace(in.StartTime),
		EndTime:   strings.TrimSpace(in.EndTime),
	}
	if p.StartTime == "" {
		p.StartTime = p.Time
	}
	if p.EndTime == "" && p.StartTime != "" && p.Minutes > 0 {
		p.EndTime = ledger.PenaltyEndTime(p.StartTime, p.Minutes)
	}
	if err := p.Validate(); err != nil {
		return ledger.Penalty{}, recordError(err)
	}
	return p, nil
}

func optionalPlayer(team *models.Team, field, number string) (*ledger.PlayerRef, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, nil
	}
	p, ok := team.PlayerByNumber(number)
	if !ok {
		return nil, invalid(field, "player %q is not on the roster", number)
	}
	ref := ledger.RefFor(p)
	return &ref, nil
}

// recordError turns a ledger validation failure into a ValidationError.
func recordError(err error) error {
	if errors.Is(err, ledger.ErrInvalidRecord) {
		msg := strings.TrimPrefix(err.Error(), ledger.ErrInvalidRecord.Error()+": ")
		return &ValidationError{Message: msg, Err: err}
	}
	return err
}
