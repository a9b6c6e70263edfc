// Package distance provides the per-plane metrics used to compare energy
// profiles.
//
// A metric is a scalar function f(x, y, w) applied to one plane at a time;
// the distance between two profiles is the sum over all planes.
//
// # Supported Metrics
//
//   - MetricEuclidean: w*(x-y)^2 (squared Euclidean)
//   - MetricManhattan: w*|x-y|
//   - MetricCosine: -w*x*y (negated dot product, see Cosine)
//
// # Usage
//
//	f, err := distance.Provider(distance.MetricManhattan)
//	d := distance.Sum(a, b, f, distance.Uniform)
package distance
