// Package clock models the game clock of a hockey game: the four periods, the
// MM:SS display time shown within a period, and the Engine that counts seconds
// while the clock runs.
//
// Two time scales exist and must never be mixed up:
//   - the display offset: seconds elapsed inside the current period, shown as MM:SS
//   - the ranking offset: Index(period)*1200 + display seconds, used only to order
//     goals and penalties across periods. It is always derived, never stored.
package clock

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PeriodLength is the length of a regulation period in seconds (20 minutes).
const PeriodLength = 20 * 60

// Period identifies one of the phases of a game.
// It is a named string type so the value reads naturally in JSON ("P1", "OT")
// while staying type-safe.
type Period string

const (
	P1 Period = "P1" // First period
	P2 Period = "P2" // Second period
	P3 Period = "P3" // Third period
	OT Period = "OT" // Overtime
)

// Periods lists every period in play order.
var Periods = []Period{P1, P2, P3, OT}

// Valid reports whether p is one of the four known periods.
func (p Period) Valid() bool {
	switch p {
	case P1, P2, P3, OT:
		return true
	}
	return false
}

// Index returns the ordinal of the period: 1, 2 and 3 for regulation, 4 for overtime.
// Unknown periods return 0.
func (p Period) Index() int {
	switch p {
	case P1:
		return 1
	case P2:
		return 2
	case P3:
		return 3
	case OT:
		return 4
	}
	return 0
}

// StartOffset returns the absolute second at which the period starts.
// Overtime shares the third period's offset (2400); its ranking position is still
// after P3 because RankingOffset uses Index, not StartOffset.
func (p Period) StartOffset() int {
	switch p {
	case P1:
		return 0
	case P2:
		return PeriodLength
	case P3, OT:
		return 2 * PeriodLength
	}
	return 0
}

// Label returns the human-readable name of the period ("Period 2", "Overtime").
func (p Period) Label() string {
	if p == OT {
		return "Overtime"
	}
	return fmt.Sprintf("Period %d", p.Index())
}

// ParsePeriod converts user input into a Period. Both "P2" and "2" are accepted,
// case-insensitively, so forms can send either the key or the bare number.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "P1", "1":
		return P1, nil
	case "P2", "2":
		return P2, nil
	case "P3", "3":
		return P3, nil
	case "OT", "4":
		return OT, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// RankingOffset returns the absolute ordering key for an event recorded at
// display time `display` in period p. It is only used for sorting.
func RankingOffset(p Period, display string) int {
	return p.Index()*PeriodLength + ParseTime(display)
}

// FormatTime renders seconds as MM:SS with zero-padded fields.
// Minutes are not wrapped into hours, so 4323 seconds is "72:03".
// Negative input is treated as zero.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseTime converts a MM:SS string into seconds.
//
// Parsing never fails: minutes and seconds are read independently and any
// component that is missing, empty, negative, not a number or too large to
// convert without overflowing counts as zero.
// "05:30" → 330, "7" → 420, "abc:12" → 12, "" → 0.
func ParseTime(s string) int {
	mins, secs, _ := strings.Cut(strings.TrimSpace(s), ":")
	m := parseComponent(mins)
	if m > maxMinutes {
		m = 0
	}
	sec := parseComponent(secs)
	if sec > math.MaxInt-m*60 {
		sec = 0
	}
	return m*60 + sec
}

// maxMinutes is the largest minutes value whose seconds still fit in an int
// alongside a two-digit seconds field.
const maxMinutes = (math.MaxInt - 59) / 60

// parseComponent reads one MM or SS field, falling back to zero.
func parseComponent(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
