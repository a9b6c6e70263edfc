package distance

import (
	"errors"
	"fmt"
)

// ErrUnknownMetric is returned when a metric selector has no entry in the
// dispatch table.
var ErrUnknownMetric = errors.New("unknown metric")

// Func computes the contribution of a single dimension to the total distance
// between two profiles. w is the weight of that dimension.
type Func func(x, y, w float64) float64

// WeightFunc returns the weight of the dimension at the given ordinal plane
// position.
type WeightFunc func(plane int) float64

// Uniform weighs every plane equally.
//
// A weighting keyed on the physical separation between planes can replace
// it without touching the metrics.
func Uniform(int) float64 { return 1.0 }

// Euclidean returns w*(x-y)^2.
func Euclidean(x, y, w float64) float64 {
	d := x - y
	return w * d * d
}

// Manhattan returns w*|x-y|.
func Manhattan(x, y, w float64) float64 {
	d := x - y
	if d < 0 {
		d = -d
	}
	return w * d
}

// Cosine returns -w*x*y.
//
// Despite the name this is a negated dot-product component, not a normalized
// cosine distance. Summed over a profile it is negative for identical non-zero
// profiles, and a more negative value means more similar.
func Cosine(x, y, w float64) float64 {
	return -w * x * y
}

// Metric selects one of the supported per-dimension functions.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricManhattan
	MetricCosine
)

var names = [...]string{
	MetricEuclidean: "Euclidean",
	MetricManhattan: "Manhattan",
	MetricCosine:    "Cosine similarity",
}

var table = [...]Func{
	MetricEuclidean: Euclidean,
	MetricManhattan: Manhattan,
	MetricCosine:    Cosine,
}

func (m Metric) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
	return names[m]
}

// Valid reports whether m has an entry in the dispatch table.
func (m Metric) Valid() bool {
	return m >= 0 && int(m) < len(table)
}

// Metrics returns all supported metrics in selector order.
func Metrics() []Metric {
	out := make([]Metric, len(table))
	for i := range table {
		out[i] = Metric(i)
	}
	return out
}

// ParseMetric converts a numeric selector (as given on the command line)
// into a Metric.
func ParseMetric(id int) (Metric, error) {
	m := Metric(id)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownMetric, id)
	}
	return m, nil
}

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMetric, m)
	}
	return table[m], nil
}

// Sum accumulates f over all dimensions of a and b.
// Assumes vectors are the same length (caller's responsibility).
func Sum(a, b []float64, f Func, w WeightFunc) float64 {
	var total float64
	for i := range a {
		total += f(a[i], b[i], w(i))
	}
	return total
}
