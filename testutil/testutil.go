package testutil

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/recotarget/event"
)

// NumTargets matches the classifier's label range.
const NumTargets = 5

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Profile returns a random normalized profile of the given length.
func (r *RNG) Profile(planes int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := make([]float64, planes)
	for i := range v {
		v[i] = r.rand.Float64()
	}
	return Normalize(v)
}

// Event draws one sparse event for target over planes 0..planes-1.
func (r *RNG) Event(target, planes int) event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eventLocked(target, planes)
}

// TargetEvents draws n events for target.
func (r *RNG) TargetEvents(target, n, planes int) event.Slice {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(event.Slice, n)
	for i := range out {
		out[i] = r.eventLocked(target, planes)
	}
	return out
}

// eventLocked is the internal implementation (caller must hold lock).
func (r *RNG) eventLocked(target, planes int) event.Event {
	center, width := Band(target, planes)
	center += max(-width/2, min(width/2, r.rand.NormFloat64()*width/4))

	lo := max(0, int(center-2*width))
	hi := min(planes, int(center+2*width)+1)
	if lo >= hi {
		lo, hi = max(0, planes-1), planes
	}

	e := event.Event{
		PlaneIDs: make([]int, 0, hi-lo),
		Energies: make([]float64, 0, hi-lo),
	}
	amplitude := 1 + r.rand.Float64()
	for id := lo; id < hi; id++ {
		z := (float64(id) - center) / width
		energy := amplitude * math.Exp(-z*z/2) * (1 + 0.2*r.rand.NormFloat64())
		if energy <= 0 {
			continue
		}
		e.PlaneIDs = append(e.PlaneIDs, id)
		e.Energies = append(e.Energies, energy)
	}
	return e
}

// Band returns the center plane and the width of the energy band of target.
func Band(target, planes int) (center, width float64) {
	p := float64(planes)
	center = (float64(target) + 0.5) / NumTargets * p
	width = max(1, p/(4*NumTargets))
	return center, width
}

// Normalize scales v in place to sum to one and returns it. A vector with a
// non-positive sum is left unchanged.
func Normalize(v []float64) []float64 {
	if total := floats.Sum(v); total > 0 {
		floats.Scale(1/total, v)
	}
	return v
}
