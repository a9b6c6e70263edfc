// Package geometry maps raw detector plane identifiers to ordinal plane
// positions.
//
// A Geometry is immutable once built and safe for concurrent use.
package geometry

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hupe1980/recotarget/codec"
)

// DefaultPlanes is the number of planes in the reference detector.
const DefaultPlanes = 208

// maxFileSize bounds geometry files read from disk.
const maxFileSize = 1 << 20

var (
	// ErrUnknownPlane is returned for a plane identifier that is not part of
	// the geometry.
	ErrUnknownPlane = errors.New("unknown plane id")

	// ErrEmpty is returned when a geometry would contain no planes.
	ErrEmpty = errors.New("geometry has no planes")
)

// Plane is one detector plane as stored in a geometry file.
type Plane struct {
	ID int     `json:"id"`
	Z  float64 `json:"z"`
}

// Geometry is the ordered set of detector planes.
type Geometry struct {
	ordinal   map[int]int
	ids       []int
	positions []float64
}

// Sequential returns a geometry of n planes whose identifiers are 0..n-1 and
// whose ordinal position equals the identifier.
func Sequential(n int) *Geometry {
	g := &Geometry{
		ordinal:   make(map[int]int, n),
		ids:       make([]int, n),
		positions: make([]float64, n),
	}
	for i := range n {
		g.ordinal[i] = i
		g.ids[i] = i
		g.positions[i] = float64(i)
	}
	return g
}

// Default returns the sequential geometry of the reference detector.
func Default() *Geometry {
	return Sequential(DefaultPlanes)
}

// FromPlanes orders planes by ascending z (ties broken by id) and assigns
// ordinal positions in that order.
func FromPlanes(planes []Plane) (*Geometry, error) {
	if len(planes) == 0 {
		return nil, ErrEmpty
	}

	sorted := slices.Clone(planes)
	slices.SortFunc(sorted, func(a, b Plane) int {
		if c := cmp.Compare(a.Z, b.Z); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	g := &Geometry{
		ordinal:   make(map[int]int, len(sorted)),
		ids:       make([]int, len(sorted)),
		positions: make([]float64, len(sorted)),
	}
	for i, p := range sorted {
		if _, dup := g.ordinal[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plane id %d", p.ID)
		}
		g.ordinal[p.ID] = i
		g.ids[i] = p.ID
		g.positions[i] = p.Z
	}
	return g, nil
}

// Load reads a JSON geometry file: an array of {"id": int, "z": float}.
func Load(path string, c codec.Codec) (*Geometry, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("geometry file must have .json extension, got %q", ext)
	}

	fi, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat geometry file: %w", err)
	}
	if fi.Size() > maxFileSize {
		return nil, fmt.Errorf("geometry file too large: %d bytes (max %d)", fi.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry file: %w", err)
	}

	var planes []Plane
	if err := codec.OrDefault(c).Unmarshal(data, &planes); err != nil {
		return nil, fmt.Errorf("failed to parse geometry file: %w", err)
	}
	return FromPlanes(planes)
}

// NumPlanes returns the number of planes P.
func (g *Geometry) NumPlanes() int {
	return len(g.ids)
}

// Ordinal returns the ordinal position of a raw plane identifier.
func (g *Geometry) Ordinal(id int) (int, error) {
	o, ok := g.ordinal[id]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownPlane, id)
	}
	return o, nil
}

// ID returns the raw identifier of the plane at the given ordinal position.
func (g *Geometry) ID(ordinal int) int {
	return g.ids[ordinal]
}

// Position returns the z position of the plane at the given ordinal position.
func (g *Geometry) Position(ordinal int) float64 {
	return g.positions[ordinal]
}
