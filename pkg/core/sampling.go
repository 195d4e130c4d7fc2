package core

import (
	"math/rand"
)

// RandomSource provides the random draws used by every stochastic operation.
// Can be swapped out for deterministic testing or a different generator.
type RandomSource interface {
	// Uniform returns a value in [lo, hi)
	Uniform(lo, hi float64) float64
	// Exponential returns an exponentially distributed value with the given mean
	Exponential(mean float64) float64
	// Bool returns true with probability 1/2
	Bool() bool
}

// RandSource wraps a standard Go random generator.
// It is not safe for concurrent use.
type RandSource struct {
	random *rand.Rand
}

// NewRandSource creates a random source from a Go random generator
func NewRandSource(random *rand.Rand) *RandSource {
	return &RandSource{random: random}
}

// NewSeededSource creates a random source seeded with seed
func NewSeededSource(seed int64) *RandSource {
	return NewRandSource(rand.New(rand.NewSource(seed)))
}

// Uniform returns a random float64 in [lo, hi)
func (r *RandSource) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.random.Float64()
}

// Exponential returns a random float64 drawn from an exponential distribution with the given mean
func (r *RandSource) Exponential(mean float64) float64 {
	return r.random.ExpFloat64() * mean
}

// Bool returns a fair coin flip
func (r *RandSource) Bool() bool {
	return r.random.Int63()&1 == 1
}

// Normal returns a random float64 drawn from a normal distribution
func (r *RandSource) Normal(mean, stddev float64) float64 {
	return mean + stddev*r.random.NormFloat64()
}
