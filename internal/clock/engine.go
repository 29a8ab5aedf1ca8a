package clock

import (
	"sync"
	"time"
)

// Update is emitted every time the engine's display time changes (a tick, a
// manual adjustment, a reset or a period change while stopped).
type Update struct {
	Period  Period `json:"period"`
	Display string `json:"display"` // Elapsed time within the period as MM:SS
	Elapsed int    `json:"elapsed"` // Same value in seconds
	Running bool   `json:"running"`
}

// Listener receives clock updates. Listeners run on the goroutine that caused the
// update (the caller for manual actions, the ticker goroutine for ticks) and are
// never called while the engine's lock is held.
type Listener func(Update)

// Ticker is the source of one-second ticks. It matches the subset of *time.Ticker
// the engine needs, so tests can drive the clock with a plain channel.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

// realTicker adapts *time.Ticker to the Ticker interface.
type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker is the default TickerFunc backed by time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Option configures an Engine.
type Option func(*Engine)

// WithTicker replaces the wall-clock ticker, mainly for tests.
func WithTicker(fn TickerFunc) Option {
	return func(e *Engine) { e.newTicker = fn }
}

// WithInterval sets how often the running clock advances by one second.
// Non-positive values keep the one-second default.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(e *Engine) { e.listeners = append(e.listeners, l) }
}

// Engine counts elapsed seconds inside the current period.
//
// All state is guarded by mu. While running, one goroutine reads the ticker and
// advances the clock. Stop bumps generation, and a tick only applies if it still
// belongs to the current generation, so a tick that was already received when
// Stop was called can never change the time afterwards.
type Engine struct {
	mu         sync.Mutex
	period     Period
	elapsed    int
	running    bool
	generation uint64
	ticker     Ticker
	done       chan struct{}

	interval  time.Duration
	newTicker TickerFunc
	listeners []Listener
}

// NewEngine returns a stopped engine in the first period at 00:00.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		period:    P1,
		interval:  time.Second,
		newTicker: NewRealTicker,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Period returns the current period.
func (e *Engine) Period() Period {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.period
}

// Elapsed returns the seconds elapsed within the current period.
func (e *Engine) Elapsed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsed
}

// Display returns the elapsed time as MM:SS.
func (e *Engine) Display() string {
	return FormatTime(e.Elapsed())
}

// Running reports whether the clock is counting.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Snapshot returns the current state as an Update without emitting it.
func (e *Engine) Snapshot() Update {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// SetPeriod switches the current period.
//
// When the clock is stopped and the period actually changes, elapsed time goes
// back to 00:00 and an update is emitted. When the clock is running the period
// changes but counting continues uninterrupted.
func (e *Engine) SetPeriod(p Period) {
	e.mu.Lock()
	if p == e.period {
		e.mu.Unlock()
		return
	}
	e.period = p
	if e.running {
		e.mu.Unlock()
		return
	}
	e.elapsed = 0
	u, ls := e.emitLocked()
	e.mu.Unlock()
	notify(ls, u)
}

// Start begins counting. Starting a running clock does nothing.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	e.running = true
	e.generation++
	e.ticker = e.newTicker(e.interval)
	e.done = make(chan struct{})
	go e.run(e.generation, e.ticker, e.done)
}

// Stop halts counting. A tick that was already received but not yet applied
// is discarded, so the time never changes after Stop returns. An update for a
// tick applied just before Stop may still reach listeners shortly after it.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// Toggle starts a stopped clock or stops a running one.
func (e *Engine) Toggle() {
	if e.Running() {
		e.Stop()
		return
	}
	e.Start()
}

// Reset stops the clock, sets elapsed time to 00:00 and emits an update.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.stopLocked()
	e.elapsed = 0
	u, ls := e.emitLocked()
	e.mu.Unlock()
	notify(ls, u)
}

// Adjust adds delta seconds (which may be negative) to the elapsed time,
// never going below zero, and emits an update whether running or not.
func (e *Engine) Adjust(delta int) {
	e.mu.Lock()
	e.elapsed += delta
	if e.elapsed < 0 {
		e.elapsed = 0
	}
	u, ls := e.emitLocked()
	e.mu.Unlock()
	notify(ls, u)
}

// SetTime sets the elapsed time from a MM:SS string and emits an update.
// Malformed input follows ParseTime and falls back to zero components.
func (e *Engine) SetTime(display string) {
	e.mu.Lock()
	e.elapsed = ParseTime(display)
	u, ls := e.emitLocked()
	e.mu.Unlock()
	notify(ls, u)
}

// Close stops the clock for good. It is safe to call more than once.
func (e *Engine) Close() {
	e.Stop()
}

// run is the ticker goroutine for one start/stop cycle.
func (e *Engine) run(gen uint64, t Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-t.C():
			e.tick(gen)
		}
	}
}

// tick advances the clock by one second if gen is still the live generation.
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if !e.running || e.generation != gen {
		e.mu.Unlock()
		return
	}
	e.elapsed++
	u, ls := e.emitLocked()
	e.mu.Unlock()
	notify(ls, u)
}

func (e *Engine) stopLocked() {
	if !e.running {
		return
	}
	e.running = false
	e.generation++
	e.ticker.Stop()
	close(e.done)
	e.ticker = nil
	e.done = nil
}

func (e *Engine) snapshotLocked() Update {
	return Update{
		Period:  e.period,
		Display: FormatTime(e.elapsed),
		Elapsed: e.elapsed,
		Running: e.running,
	}
}

// emitLocked captures the update and a copy of the listeners so they can be
// notified after the lock is released.
func (e *Engine) emitLocked() (Update, []Listener) {
	ls := make([]Listener, len(e.listeners))
	copy(ls, e.listeners)
	return e.snapshotLocked(), ls
}

func notify(ls []Listener, u Update) {
	for _, l := range ls {
		l(u)
	}
}
