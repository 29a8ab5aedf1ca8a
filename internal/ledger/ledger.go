package ledger

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/trentd187/hockey-gamesheet/internal/models"
)

// Ledger holds the goals and penalties of one game.
//
// Both collections are always kept in ascending ranking-offset order, ties in
// insertion order. Every descending or grouped view is derived from that order.
// A Ledger is not safe for concurrent use; the owning game sheet serializes access.
type Ledger struct {
	goals     []Goal
	penalties []Penalty
	newID     func() string
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{newID: uuid.NewString}
}

// AddGoal stores g under a freshly generated ID and returns the stored record.
// Any ID already set on g is ignored.
func (l *Ledger) AddGoal(g Goal) Goal {
	g.ID = l.newID()
	l.goals = append(l.goals, g)
	sortAscending(l.goals)
	return g
}

// AddPenalty stores p under a freshly generated ID and returns the stored record.
func (l *Ledger) AddPenalty(p Penalty) Penalty {
	p.ID = l.newID()
	l.penalties = append(l.penalties, p)
	sortAscending(l.penalties)
	return p
}

// UpdateGoal replaces the goal with the given id, keeping the id.
// Unknown ids are ignored.
func (l *Ledger) UpdateGoal(id string, g Goal) {
	if i := slices.IndexFunc(l.goals, func(x Goal) bool { return x.ID == id }); i >= 0 {
		g.ID = id
		l.goals[i] = g
		sortAscending(l.goals)
	}
}

// UpdatePenalty replaces the penalty with the given id, keeping the id.
// Unknown ids are ignored.
func (l *Ledger) UpdatePenalty(id string, p Penalty) {
	if i := slices.IndexFunc(l.penalties, func(x Penalty) bool { return x.ID == id }); i >= 0 {
		p.ID = id
		l.penalties[i] = p
		sortAscending(l.penalties)
	}
}

// RemoveGoal deletes the goal with the given id, if any.
func (l *Ledger) RemoveGoal(id string) {
	l.goals = slices.DeleteFunc(l.goals, func(x Goal) bool { return x.ID == id })
}

// RemovePenalty deletes the penalty with the given id, if any.
func (l *Ledger) RemovePenalty(id string) {
	l.penalties = slices.DeleteFunc(l.penalties, func(x Penalty) bool { return x.ID == id })
}

// Goal looks up a goal by id.
func (l *Ledger) Goal(id string) (Goal, bool) {
	i := slices.IndexFunc(l.goals, func(x Goal) bool { return x.ID == id })
	if i < 0 {
		return Goal{}, false
	}
	return l.goals[i], true
}

// Penalty looks up a penalty by id.
func (l *Ledger) Penalty(id string) (Penalty, bool) {
	i := slices.IndexFunc(l.penalties, func(x Penalty) bool { return x.ID == id })
	if i < 0 {
		return Penalty{}, false
	}
	return l.penalties[i], true
}

// Goals returns the goals in ascending game-time order.
func (l *Ledger) Goals() []Goal {
	return slices.Clone(l.goals)
}

// Penalties returns the penalties in ascending game-time order.
func (l *Ledger) Penalties() []Penalty {
	return slices.Clone(l.penalties)
}

// Score tallies goals per side. Penalties do not count.
func (l *Ledger) Score() (home, away int) {
	for _, g := range l.goals {
		switch g.Team {
		case models.SideHome:
			home++
		case models.SideAway:
			away++
		}
	}
	return home, away
}

// OrderedGoals returns the goals most recent first.
func (l *Ledger) OrderedGoals() []Goal {
	return descending(l.goals)
}

// OrderedPenalties returns the penalties most recent first.
func (l *Ledger) OrderedPenalties() []Penalty {
	return descending(l.penalties)
}

// Timeline merges goals and penalties into one ascending sequence of tagged
// events. On equal game time goals come before penalties.
func (l *Ledger) Timeline() []Event {
	events := make([]Event, 0, len(l.goals)+len(l.penalties))
	for i := range l.goals {
		g := l.goals[i]
		events = append(events, Event{Kind: KindGoal, Goal: &g})
	}
	for i := range l.penalties {
		p := l.penalties[i]
		events = append(events, Event{Kind: KindPenalty, Penalty: &p})
	}
	sortAscending(events)
	return events
}

// sortAscending orders records by ranking offset, keeping ties stable.
func sortAscending[T Timed](records []T) {
	slices.SortStableFunc(records, func(a, b T) int {
		return cmp.Compare(RankingOffset(a), RankingOffset(b))
	})
}

// descending returns a copy of records ordered most recent first. Records with
// the same game time keep their relative order.
func descending[T Timed](records []T) []T {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(RankingOffset(b), RankingOffset(a))
	})
	return out
}
