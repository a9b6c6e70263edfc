// Package recotarget reconstructs in which detector target a particle
// interaction happened by k-nearest-neighbor classification of per-plane
// energy profiles.
//
// Each event is reduced to a normalized vector of deposited energy per
// detector plane (see package profile). Events of known target are split
// into a testing and a learning set per target. Every testing profile is
// compared with every learning profile under one metric (see package
// distance), and it is assigned the label most frequent among its k nearest
// learning profiles. A target's score is the fraction of its testing profiles
// assigned back to it.
//
// # Quick Start
//
//	geo := geometry.Default()
//	ld := loader.New(store)
//	set, _ := ld.Build(ctx, loader.Request{
//	    Testing: []int{0, 1}, Learning: []int{0, 1, 2, 3, 4},
//	    NTesting: 500, NLearning: 500,
//	    Geometry: geo,
//	})
//
//	c := recotarget.New(recotarget.WithWorkers(runtime.NumCPU()))
//	results, _ := c.Classify(ctx, set.Testing, set.Learning, distance.MetricEuclidean, 10)
//	recotarget.FormatResults(os.Stdout, results)
//
// # Determinism
//
// Neighbor lists are sorted with a stable sort and vote ties go to the
// lowest label, so results do not depend on the worker count.
//
// # Observability
//
// Logging goes through Logger (log/slog). A MetricsCollector receives fill,
// compare and score events; BasicMetricsCollector keeps atomic counters.
package recotarget
