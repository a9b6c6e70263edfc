package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEvents is returned when a selected target has no event files or
	// its files hold no events.
	ErrNoEvents = errors.New("no input events")

	// ErrInsufficientEvents is returned when a target has fewer than two
	// events per requested profile, so testing and learning samples cannot
	// be drawn from disjoint events.
	ErrInsufficientEvents = errors.New("insufficient input events")

	// ErrOverlap is returned when testing and learning samples of a target
	// share an event.
	ErrOverlap = errors.New("testing and learning samples overlap")
)

// ErrDecode reports the event file that failed to decode.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrDecode struct {
	Name  string
	cause error
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Name, e.cause)
}

func (e *ErrDecode) Unwrap() error { return e.cause }
