// Package testutil provides seeded random data for tests and the synthetic
// event generator.
//
// Events drawn for a target deposit energy in a band of planes whose center
// moves with the target label, so a kNN vote over their profiles separates
// targets well while staying noisy enough to be non-trivial.
//
//	rng := testutil.NewRNG(4711)
//	events := rng.TargetEvents(2, 1000, geometry.DefaultPlanes)
package testutil
