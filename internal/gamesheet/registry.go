package gamesheet

import (
	"sync"

	"github.com/trentd187/hockey-gamesheet/internal/models"
)

// Registry keeps the open game sheets of this process, keyed by game ID.
// Sessions never share state; the registry only hands out handles to them.
type Registry struct {
	sessions map[string]*Session
	opts     []Option
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry. opts are applied to every session it creates.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Get returns the session for a game.
func (r *Registry) Get(gameID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[gameID]
	return s, ok
}

// Open returns the existing session for the game or creates one seeded from
// game. The boolean is true when a new session was created.
func (r *Registry) Open(game models.Game) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[game.ID]; ok {
		return s, false
	}
	s := New(game, r.opts...)
	r.sessions[game.ID] = s
	return s, true
}

// Delete closes and forgets the session of a game. Unknown IDs are ignored.
func (r *Registry) Delete(gameID string) {
	r.mu.Lock()
	s, ok := r.sessions[gameID]
	delete(r.sessions, gameID)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
