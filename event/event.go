// Package event holds sparse per-event detector records and the positional
// sources profiles are filled from.
package event

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a Source is asked for an index it does not
// hold.
var ErrOutOfRange = errors.New("event index out of range")

// Event is the sparse energy record of one interaction: only planes with
// recorded energy are present.
type Event struct {
	PlaneIDs []int     `json:"plane_id"`
	Energies []float64 `json:"plane_visible_energy"`
}

// Count returns the number of filled planes.
func (e Event) Count() int {
	return len(e.PlaneIDs)
}

// Validate checks that plane ids and energies pair up.
func (e Event) Validate() error {
	if len(e.PlaneIDs) != len(e.Energies) {
		return fmt.Errorf("event has %d plane ids but %d energies", len(e.PlaneIDs), len(e.Energies))
	}
	return nil
}

// Source gives positional access to events.
type Source interface {
	// Len returns the number of events.
	Len() int

	// Event returns the event at index i.
	Event(i int) (Event, error)
}

// Slice is an in-memory Source.
type Slice []Event

// Len implements Source.
func (s Slice) Len() int { return len(s) }

// Event implements Source.
func (s Slice) Event(i int) (Event, error) {
	if i < 0 || i >= len(s) {
		return Event{}, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(s))
	}
	return s[i], nil
}
