package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive or exceeds the number of
	// accumulated neighbors.
	ErrInvalidK = errors.New("invalid neighbor count k")

	// ErrAlreadyFilled is returned when a profile is filled a second time.
	ErrAlreadyFilled = errors.New("profile already filled")

	// ErrEmptyCollection is returned when scoring a collection without
	// profiles.
	ErrEmptyCollection = errors.New("collection has no profiles")

	// ErrInvalidTarget is returned for a negative target label.
	ErrInvalidTarget = errors.New("invalid target label")
)

// ErrDimensionMismatch indicates that two vectors (or a vector and a
// geometry) disagree on the number of planes.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d planes, got %d", e.Expected, e.Actual)
}
