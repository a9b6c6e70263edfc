package loader

import "fmt"

const (
	// TestingStart is the first event index of a testing sample.
	TestingStart = 1
	// LearningStart is the first event index of a learning sample.
	LearningStart = 0
)

// TargetPath returns the directory, relative to the input root, that holds
// the event files of the 0-based target label.
func TargetPath(target int) string {
	return fmt.Sprintf("00/00/00/%02d/", target+1)
}

// Stride returns the even step between sampled events when size profiles
// are drawn from n events: (n / size / 2) * 2. Because the step is even and
// the two roles start at 1 and 0, testing reads odd events and learning
// reads even events.
func Stride(n, size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("sample size must be positive, got %d", size)
	}
	stride := (n / size / 2) * 2
	if stride == 0 {
		return 0, fmt.Errorf("%w: %d events for %d profiles, need at least %d", ErrInsufficientEvents, n, size, 2*size)
	}
	return stride, nil
}
