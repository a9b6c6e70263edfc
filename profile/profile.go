// Package profile implements the energy profiles of single events and the
// per-target collections that are cross-compared and scored by kNN vote.
package profile

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/recotarget/distance"
	"github.com/hupe1980/recotarget/geometry"
)

// Neighbor records the distance to one labeled profile.
type Neighbor struct {
	Distance float64
	Target   int
}

// Profile is the normalized energy-per-plane vector of one event together
// with the neighbors found for it so far.
//
// After Fill the vector is either all zero or sums to one. The neighbor list
// only grows; it is sorted in place when a prediction is requested.
type Profile struct {
	values    []float64
	neighbors []Neighbor
	filled    bool
}

// New returns an unfilled profile over the given number of planes.
func New(planes int) *Profile {
	return &Profile{values: make([]float64, planes)}
}

// Len returns the number of planes.
func (p *Profile) Len() int {
	return len(p.values)
}

// Filled reports whether Fill has succeeded on p.
func (p *Profile) Filled() bool {
	return p.filled
}

// Values returns a copy of the normalized vector.
func (p *Profile) Values() []float64 {
	return slices.Clone(p.values)
}

// Neighbors returns a copy of the neighbor list in its current order.
func (p *Profile) Neighbors() []Neighbor {
	return slices.Clone(p.neighbors)
}

// Fill builds the profile from a sparse event record: count entries of
// plane ids and their energies. Each energy is placed at the ordinal
// position of its plane, then the vector is divided by the total energy.
// A non-positive total leaves the all-zero vector.
func (p *Profile) Fill(energies []float64, planeIDs []int, count int, geo *geometry.Geometry) error {
	if p.filled {
		return ErrAlreadyFilled
	}
	if count < 0 || count > len(energies) || count > len(planeIDs) {
		return fmt.Errorf("count %d exceeds input (%d energies, %d plane ids)", count, len(energies), len(planeIDs))
	}
	if geo.NumPlanes() != len(p.values) {
		return &ErrDimensionMismatch{Expected: len(p.values), Actual: geo.NumPlanes()}
	}

	clear(p.values)

	var total float64
	for i := 0; i < count; i++ {
		o, err := geo.Ordinal(planeIDs[i])
		if err != nil {
			clear(p.values)
			return err
		}
		p.values[o] += energies[i]
		total += energies[i]
	}

	if total > 0 {
		floats.Scale(1/total, p.values)
	} else {
		clear(p.values)
	}

	p.filled = true
	return nil
}

// Distance sums f over all planes of p and other with uniform weights.
// Both profiles must have the same number of planes.
func (p *Profile) Distance(other *Profile, f distance.Func) float64 {
	return distance.Sum(p.values, other.values, f, distance.Uniform)
}

// AppendNeighbor records a labeled neighbor at distance d.
func (p *Profile) AppendNeighbor(d float64, target int) {
	p.neighbors = append(p.neighbors, Neighbor{Distance: d, Target: target})
}

// ClosestTarget sorts the neighbors by ascending distance (stable, so equal
// distances keep insertion order) and returns the label most frequent among
// the first k. Equal tallies go to the lowest label.
func (p *Profile) ClosestTarget(k int) (int, error) {
	if k <= 0 || k > len(p.neighbors) {
		return 0, fmt.Errorf("%w: k=%d with %d neighbors", ErrInvalidK, k, len(p.neighbors))
	}

	slices.SortStableFunc(p.neighbors, func(a, b Neighbor) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	tally := make(map[int]int)
	for _, n := range p.neighbors[:k] {
		tally[n.Target]++
	}

	best, bestCount := 0, 0
	for target, count := range tally {
		if count > bestCount || (count == bestCount && target < best) {
			best, bestCount = target, count
		}
	}
	return best, nil
}
