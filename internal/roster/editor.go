// Package roster implements the pre-game roster editor of one team.
//
// The editor keeps two lists:
//   - the raw rows the user is typing into, which may be half filled in
//   - the authoritative roster: only rows with both a number and a name,
//     sorted by jersey number, pushed to the owner after every change
package roster

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/trentd187/hockey-gamesheet/internal/models"
)

// Field names one of the two editable columns of a row.
type Field string

const (
	FieldNumber Field = "number"
	FieldName   Field = "name"
)

var (
	// ErrIndexOutOfRange is returned for a row index that does not exist.
	ErrIndexOutOfRange = errors.New("roster row index out of range")
	// ErrUnknownField is returned when UpdatePlayer is given a field other than number or name.
	ErrUnknownField = errors.New("unknown roster field")
)

// Option configures an Editor.
type Option func(*Editor)

// WithGuard installs a check run before every mutation. If it returns an error
// the mutation is refused and the error is returned to the caller. The game
// sheet uses this to lock rosters once the game has started.
func WithGuard(guard func() error) Option {
	return func(e *Editor) { e.guard = guard }
}

// WithOnChange registers the function receiving the authoritative roster after
// every successful edit or removal.
func WithOnChange(fn func([]models.Player)) Option {
	return func(e *Editor) { e.onChange = fn }
}

// Editor edits one team's roster. It is not safe for concurrent use.
type Editor struct {
	rows     []models.Player
	guard    func() error
	onChange func([]models.Player)
}

// NewEditor seeds the editor with the team's current players.
func NewEditor(players []models.Player, opts ...Option) *Editor {
	e := &Editor{rows: slices.Clone(players)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rows returns the raw rows, including incomplete ones, in entry order.
func (e *Editor) Rows() []models.Player {
	return slices.Clone(e.rows)
}

// Players returns the authoritative roster: complete rows sorted by number.
func (e *Editor) Players() []models.Player {
	return Complete(e.rows)
}

// AddPlayer appends an empty row. The authoritative roster is unchanged, so
// nothing is pushed.
func (e *Editor) AddPlayer() error {
	if err := e.check(); err != nil {
		return err
	}
	e.rows = append(e.rows, models.Player{})
	return nil
}

// UpdatePlayer sets one field of the row at index and pushes the new roster.
func (e *Editor) UpdatePlayer(index int, field Field, value string) error {
	if err := e.check(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.rows) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	switch field {
	case FieldNumber:
		e.rows[index].Number = value
	case FieldName:
		e.rows[index].Name = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	e.push()
	return nil
}

// RemovePlayer deletes the row at index and pushes the new roster.
func (e *Editor) RemovePlayer(index int) error {
	if err := e.check(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.rows) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	e.rows = slices.Delete(e.rows, index, index+1)
	e.push()
	return nil
}

func (e *Editor) check() error {
	if e.guard == nil {
		return nil
	}
	return e.guard()
}

func (e *Editor) push() {
	if e.onChange != nil {
		e.onChange(e.Players())
	}
}

// Complete filters out rows missing a number or a name and sorts the rest by
// jersey number.
func Complete(rows []models.Player) []models.Player {
	out := make([]models.Player, 0, len(rows))
	for _, p := range rows {
		if strings.TrimSpace(p.Number) != "" && strings.TrimSpace(p.Name) != "" {
			out = append(out, p)
		}
	}
	SortByNumber(out)
	return out
}

// SortByNumber orders players by jersey number.
//
// Numbers that parse as integers sort numerically. Anything else ("00A", "C")
// sorts after every numeric number, by plain string comparison. Equal keys keep
// their original order.
func SortByNumber(players []models.Player) {
	slices.SortStableFunc(players, func(a, b models.Player) int {
		return CompareNumbers(a.Number, b.Number)
	})
}

// CompareNumbers compares two jersey numbers with the ordering described on
// SortByNumber.
func CompareNumbers(a, b string) int {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
