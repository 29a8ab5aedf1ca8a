package gamesheet

import (
	"errors"
	"fmt"
)

// Lifecycle and lookup errors. Handlers match them with errors.Is.
var (
	ErrInvalidTransition = errors.New("invalid game state transition")
	ErrNotInSetup        = errors.New("rosters can only be edited before the game starts")
	ErrNotActive         = errors.New("game is not in progress")
	ErrNoEditContext     = errors.New("no matching form is open")
	ErrEventNotFound     = errors.New("goal or penalty not found")
	ErrSessionNotFound   = errors.New("game sheet not found")
	ErrUnknownSide       = errors.New("side must be home or away")
)

// ValidationError reports an incomplete or inconsistent goal/penalty submission.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
