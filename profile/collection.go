package profile

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/recotarget/distance"
	"github.com/hupe1980/recotarget/event"
	"github.com/hupe1980/recotarget/geometry"
)

// Role tells whether a collection is classified or used as reference.
type Role uint8

const (
	// RoleLearning collections provide labeled neighbors.
	RoleLearning Role = iota
	// RoleTesting collections are classified and scored.
	RoleTesting
)

func (r Role) String() string {
	if r == RoleTesting {
		return "testing"
	}
	return "learning"
}

// Collection owns a fixed number of profiles of one target and one role.
type Collection struct {
	target   int
	role     Role
	planes   int
	profiles []Profile
	indices  *roaring.Bitmap
}

// NewCollection allocates n unfilled profiles of the given number of planes.
// All vectors share one contiguous backing array.
func NewCollection(target, n, planes int, role Role) (*Collection, error) {
	if target < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTarget, target)
	}
	if n <= 0 {
		return nil, fmt.Errorf("collection size must be positive, got %d", n)
	}
	if planes <= 0 {
		return nil, fmt.Errorf("plane count must be positive, got %d", planes)
	}

	data := make([]float64, n*planes)
	profiles := make([]Profile, n)
	for i := range profiles {
		profiles[i].values = data[i*planes : (i+1)*planes : (i+1)*planes]
	}

	return &Collection{
		target:   target,
		role:     role,
		planes:   planes,
		profiles: profiles,
		indices:  roaring.New(),
	}, nil
}

// Target returns the label of the collection.
func (c *Collection) Target() int { return c.target }

// Role returns the role of the collection.
func (c *Collection) Role() Role { return c.role }

// Len returns the number of profiles.
func (c *Collection) Len() int { return len(c.profiles) }

// Planes returns the number of planes per profile.
func (c *Collection) Planes() int { return c.planes }

// Bytes returns the size of the profile vectors in bytes.
func (c *Collection) Bytes() int64 {
	return int64(len(c.profiles)) * int64(c.planes) * 8
}

// Profile returns the i-th profile.
func (c *Collection) Profile(i int) *Profile {
	return &c.profiles[i]
}

// Indices returns the source event indices the collection was filled from.
func (c *Collection) Indices() *roaring.Bitmap {
	return c.indices.Clone()
}

// Fill reads event start+i*stride from src into profile i, in order.
func (c *Collection) Fill(src event.Source, start, stride int, geo *geometry.Geometry) error {
	if start < 0 || stride < 0 {
		return fmt.Errorf("invalid start %d / stride %d", start, stride)
	}

	for i := range c.profiles {
		idx := start + i*stride
		ev, err := src.Event(idx)
		if err != nil {
			return fmt.Errorf("%s target %d profile %d: %w", c.role, c.target, i, err)
		}
		if err := c.profiles[i].Fill(ev.Energies, ev.PlaneIDs, ev.Count(), geo); err != nil {
			return fmt.Errorf("%s target %d event %d: %w", c.role, c.target, idx, err)
		}
		c.indices.Add(uint32(idx))
	}
	return nil
}

// FillNeighbors compares every profile of c with every profile of other and
// records each distance, labeled with other's target, on c's profile.
func (c *Collection) FillNeighbors(other *Collection, m distance.Metric) error {
	f, err := c.prepare(other, m)
	if err != nil {
		return err
	}

	for i := range c.profiles {
		c.fillNeighborsOf(i, other, f)
	}
	return nil
}

// FillNeighborsParallel is FillNeighbors split by profile index over at most
// workers goroutines. Every profile is written by exactly one goroutine, and
// the resulting neighbor lists equal those of FillNeighbors.
func (c *Collection) FillNeighborsParallel(ctx context.Context, other *Collection, m distance.Metric, workers int) error {
	if workers <= 1 || len(c.profiles) < 2 {
		return c.FillNeighbors(other, m)
	}

	f, err := c.prepare(other, m)
	if err != nil {
		return err
	}

	workers = min(workers, len(c.profiles))
	chunk := (len(c.profiles) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < len(c.profiles); lo += chunk {
		hi := min(lo+chunk, len(c.profiles))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				c.fillNeighborsOf(i, other, f)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Collection) prepare(other *Collection, m distance.Metric) (distance.Func, error) {
	f, err := distance.Provider(m)
	if err != nil {
		return nil, err
	}
	if other.planes != c.planes {
		return nil, &ErrDimensionMismatch{Expected: c.planes, Actual: other.planes}
	}
	return f, nil
}

func (c *Collection) fillNeighborsOf(i int, other *Collection, f distance.Func) {
	p := &c.profiles[i]
	if cap(p.neighbors)-len(p.neighbors) < len(other.profiles) {
		grown := make([]Neighbor, len(p.neighbors), len(p.neighbors)+len(other.profiles))
		copy(grown, p.neighbors)
		p.neighbors = grown
	}
	for j := range other.profiles {
		p.AppendNeighbor(p.Distance(&other.profiles[j], f), other.target)
	}
}

// Predict returns ClosestTarget(k) for every profile, in collection order.
func (c *Collection) Predict(k int) ([]int, error) {
	out := make([]int, len(c.profiles))
	for i := range c.profiles {
		t, err := c.profiles[i].ClosestTarget(k)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}

// Score returns the fraction of profiles whose predicted target is
// trueTarget.
func (c *Collection) Score(trueTarget, k int) (float64, error) {
	if len(c.profiles) == 0 {
		return 0, ErrEmptyCollection
	}

	predicted, err := c.Predict(k)
	if err != nil {
		return 0, err
	}

	hits := 0
	for _, t := range predicted {
		if t == trueTarget {
			hits++
		}
	}
	return float64(hits) / float64(len(c.profiles)), nil
}
