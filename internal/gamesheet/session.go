// Package gamesheet is the game sheet of one hockey game: a session aggregate
// that owns the working copy of the game, both roster editors, the clock and the
// goal/penalty ledger, and enforces the setup → active → ended lifecycle.
package gamesheet

import (
	"fmt"
	"log"
	"sync"

	"github.com/trentd187/hockey-gamesheet/internal/clock"
	"github.com/trentd187/hockey-gamesheet/internal/ledger"
	"github.com/trentd187/hockey-gamesheet/internal/models"
	"github.com/trentd187/hockey-gamesheet/internal/roster"
)

// ChangeKind says which part of the sheet changed.
type ChangeKind string

const (
	ChangeState  ChangeKind = "state"  // Lifecycle transition
	ChangeRoster ChangeKind = "roster" // A roster row was added, edited or removed
	ChangeClock  ChangeKind = "clock"  // The clock emitted a new time
	ChangeLedger ChangeKind = "ledger" // A goal or penalty was added, edited or removed
	ChangeEdit   ChangeKind = "edit"   // A form was opened or closed
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	GameID string        `json:"game_id"`
	Kind   ChangeKind    `json:"kind"`
	Clock  *clock.Update `json:"clock,omitempty"`
}

// Option configures a Session.
type Option func(*config)

type config struct {
	clockOpts []clock.Option
}

// WithClockOptions passes options through to the session's clock engine.
func WithClockOptions(opts ...clock.Option) Option {
	return func(c *config) { c.clockOpts = append(c.clockOpts, opts...) }
}

// Session is the game sheet of one game.
//
// mu serializes every user action. Clock ticks run on the clock's own goroutine
// and only touch the clock engine, so they never interleave with a half-done
// session mutation. subMu guards the subscriber list separately because clock
// updates are delivered while mu may be held.
type Session struct {
	mu     sync.Mutex
	seed   models.Game // Original from the provider, never modified
	game   models.Game // Working copy: rosters and status change here
	state  models.GameStatus
	clock  *clock.Engine
	ledger *ledger.Ledger
	home   *roster.Editor
	away   *roster.Editor
	edit   *EditContext

	subMu       sync.RWMutex
	subscribers []func(Change)

	closeOnce sync.Once
	done      chan struct{}
}

// New builds a session in the setup state from a provider game.
// The game is deep-copied; the caller's value is never modified.
func New(game models.Game, opts ...Option) *Session {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Session{
		seed:   game.Clone(),
		game:   game.Clone(),
		state:  models.GameStatusSetup,
		ledger: ledger.New(),
		done:   make(chan struct{}),
	}
	s.game.Status = models.GameStatusSetup

	s.home = s.newEditor(models.SideHome)
	s.away = s.newEditor(models.SideAway)

	clockOpts := append([]clock.Option{clock.WithListener(s.onClock)}, cfg.clockOpts...)
	s.clock = clock.NewEngine(clockOpts...)
	return s
}

// newEditor wires a roster editor to the working copy of one team.
func (s *Session) newEditor(side models.Side) *roster.Editor {
	return roster.NewEditor(s.game.Team(side).Players,
		roster.WithGuard(func() error {
			if s.state != models.GameStatusSetup {
				return ErrNotInSetup
			}
			return nil
		}),
		roster.WithOnChange(func(players []models.Player) {
			s.game.Team(side).Players = players
		}),
	)
}

// GameID returns the ID of the game this sheet belongs to.
func (s *Session) GameID() string {
	return s.seed.ID
}

// Game returns a copy of the working game, with edited rosters and the current status.
func (s *Session) Game() models.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone()
}

// State returns the lifecycle state.
func (s *Session) State() models.GameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Score returns the goal tally per side.
func (s *Session) Score() (home, away int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Score()
}

// Subscribe registers fn to receive every future change. fn is called from the
// goroutine that made the change and must not call back into the session
// synchronously.
func (s *Session) Subscribe(fn func(Change)) {
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

// Close stops the clock and closes Done. The session stays readable.
// Calling Close more than once is safe.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.clock.Close()
		close(s.done)
	})
}

// Done is closed when the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// --- Lifecycle ---

// StartGame moves the sheet from setup to active. The clock stays at P1 00:00
// and stopped; the ledger is empty.
func (s *Session) StartGame() error {
	s.mu.Lock()
	if s.state != models.GameStatusSetup {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot start a game that is %s", ErrInvalidTransition, state)
	}
	s.setStateLocked(models.GameStatusActive)
	s.mu.Unlock()

	log.Printf("gamesheet: game %s started", s.GameID())
	s.notify(Change{Kind: ChangeState})
	return nil
}

// EndGame moves the sheet from active to ended, stops the clock, closes any
// open form and freezes the sheet.
func (s *Session) EndGame() error {
	s.mu.Lock()
	if s.state != models.GameStatusActive {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot end a game that is %s", ErrInvalidTransition, state)
	}
	s.clock.Stop()
	s.edit = nil
	s.setStateLocked(models.GameStatusEnded)
	home, away := s.ledger.Score()
	s.mu.Unlock()

	log.Printf("gamesheet: game %s ended %d-%d", s.GameID(), home, away)
	s.notify(Change{Kind: ChangeState})
	return nil
}

func (s *Session) setStateLocked(state models.GameStatus) {
	s.state = state
	s.game.Status = state
}

func (s *Session) requireActiveLocked() error {
	if s.state != models.GameStatusActive {
		return fmt.Errorf("%w (state %s)", ErrNotActive, s.state)
	}
	return nil
}

// --- Rosters ---

func (s *Session) editor(side models.Side) (*roster.Editor, error) {
	switch side {
	case models.SideHome:
		return s.home, nil
	case models.SideAway:
		return s.away, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSide, side)
}

// RosterRows returns the raw editor rows of one side, incomplete rows included.
func (s *Session) RosterRows(side models.Side) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.editor(side)
	if err != nil {
		return nil, err
	}
	return e.Rows(), nil
}

// AddPlayer appends an empty roster row. Only allowed during setup.
func (s *Session) AddPlayer(side models.Side) error {
	return s.rosterEdit(side, func(e *roster.Editor) error { return e.AddPlayer() })
}

// UpdatePlayer edits one field of a roster row. Only allowed during setup.
func (s *Session) UpdatePlayer(side models.Side, index int, field roster.Field, value string) error {
	return s.rosterEdit(side, func(e *roster.Editor) error { return e.UpdatePlayer(index, field, value) })
}

// RemovePlayer deletes a roster row. Only allowed during setup.
func (s *Session) RemovePlayer(side models.Side, index int) error {
	return s.rosterEdit(side, func(e *roster.Editor) error { return e.RemovePlayer(index) })
}

func (s *Session) rosterEdit(side models.Side, fn func(*roster.Editor) error) error {
	s.mu.Lock()
	e, err := s.editor(side)
	if err == nil {
		err = fn(e)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Change{Kind: ChangeRoster})
	return nil
}

// --- Clock ---

// StartClock starts the game clock.
func (s *Session) StartClock() error {
	return s.clockAction(func(c *clock.Engine) bool { c.Start(); return true })
}

// StopClock stops the game clock.
func (s *Session) StopClock() error {
	return s.clockAction(func(c *clock.Engine) bool { c.Stop(); return true })
}

// ToggleClock starts a stopped clock or stops a running one.
func (s *Session) ToggleClock() error {
	return s.clockAction(func(c *clock.Engine) bool { c.Toggle(); return true })
}

// ResetClock stops the clock and sets it back to 00:00.
func (s *Session) ResetClock() error {
	return s.clockAction(func(c *clock.Engine) bool { c.Reset(); return false })
}

// AdjustClock moves the clock by delta seconds, never below 00:00.
func (s *Session) AdjustClock(delta int) error {
	return s.clockAction(func(c *clock.Engine) bool { c.Adjust(delta); return false })
}

// SetPeriod changes the current period; see clock.Engine.SetPeriod.
func (s *Session) SetPeriod(p clock.Period) error {
	if !p.Valid() {
		return invalid("period", "unknown period %q", p)
	}
	return s.clockAction(func(c *clock.Engine) bool {
		// The engine only emits for a period change while stopped.
		running := c.Running()
		c.SetPeriod(p)
		return running
	})
}

// SetClockTime sets the elapsed time of the period from a MM:SS string.
func (s *Session) SetClockTime(display string) error {
	return s.clockAction(func(c *clock.Engine) bool { c.SetTime(display); return false })
}

// Clock returns the current clock state.
func (s *Session) Clock() clock.Update {
	return s.clock.Snapshot()
}

// clockAction runs fn against the engine while the game is active. Engine
// actions that change the clock without emitting an update (start, stop and a
// period change while running) return true so subscribers still get a
// ChangeClock carrying the new state.
func (s *Session) clockAction(fn func(*clock.Engine) bool) error {
	s.mu.Lock()
	if err := s.requireActiveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	announce := fn(s.clock)
	snap := s.clock.Snapshot()
	s.mu.Unlock()
	if announce {
		s.notify(Change{Kind: ChangeClock, Clock: &snap})
	}
	return nil
}

// onClock forwards clock emissions to subscribers. It runs without mu.
func (s *Session) onClock(u clock.Update) {
	s.notify(Change{Kind: ChangeClock, Clock: &u})
}

// --- Ledger ---

// DeleteGoal removes a goal. Unknown ids are ignored.
func (s *Session) DeleteGoal(id string) error {
	s.mu.Lock()
	if err := s.requireActiveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.ledger.RemoveGoal(id)
	closed := s.closeEditLocked(ledger.KindGoal, id)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeLedger})
	if closed {
		s.notify(Change{Kind: ChangeEdit})
	}
	return nil
}

// DeletePenalty removes a penalty. Unknown ids are ignored.
func (s *Session) DeletePenalty(id string) error {
	s.mu.Lock()
	if err := s.requireActiveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.ledger.RemovePenalty(id)
	closed := s.closeEditLocked(ledger.KindPenalty, id)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeLedger})
	if closed {
		s.notify(Change{Kind: ChangeEdit})
	}
	return nil
}

// Goals returns all goals most recent first.
func (s *Session) Goals() []ledger.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.OrderedGoals()
}

// Penalties returns all penalties most recent first.
func (s *Session) Penalties() []ledger.Penalty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.OrderedPenalties()
}

// Timeline returns goals and penalties merged in game-time order.
func (s *Session) Timeline() []ledger.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Timeline()
}

func (s *Session) notify(c Change) {
	c.GameID = s.GameID()
	s.subMu.RLock()
	subs := make([]func(Change), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(c)
	}
}
