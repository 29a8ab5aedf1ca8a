package ledger

import "github.com/trentd187/hockey-gamesheet/internal/clock"

// PeriodGroup is one bucket of GroupByPeriod.
type PeriodGroup[T Timed] struct {
	Period  clock.Period `json:"period"`
	Label   string       `json:"label"`
	Records []T          `json:"records"`
}

// GroupByPeriod splits an already ordered sequence into per-period buckets.
//
// Buckets appear in the order their period first shows up in records, not in
// P1→OT order, so a most-recent-first input lists the latest period first.
// Inside a bucket the incoming order is kept.
func GroupByPeriod[T Timed](records []T) []PeriodGroup[T] {
	var groups []PeriodGroup[T]
	index := make(map[clock.Period]int)
	for _, r := range records {
		p := r.EventPeriod()
		i, ok := index[p]
		if !ok {
			i = len(groups)
			index[p] = i
			groups = append(groups, PeriodGroup[T]{Period: p, Label: p.Label()})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
