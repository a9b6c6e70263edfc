package recotarget

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTestingTargets is returned when no testing collection is given.
	ErrNoTestingTargets = errors.New("no testing targets selected")

	// ErrNoLearningTargets is returned when no learning collection is given.
	ErrNoLearningTargets = errors.New("no learning targets selected")
)

// ErrTargetFailed reports which testing target a classification step failed
// for.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrTargetFailed struct {
	Target int
	Op     string
	cause  error
}

func (e *ErrTargetFailed) Error() string {
	return fmt.Sprintf("target %d: %s: %v", e.Target+1, e.Op, e.cause)
}

func (e *ErrTargetFailed) Unwrap() error { return e.cause }
