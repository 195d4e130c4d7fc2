// Package crosssection models differential scattering cross-sections in
// μ = cos θ and draws scattering angles from them by rejection sampling.
package crosssection

import (
	"iter"

	"github.com/df07/go-photon-transport/pkg/core"
)

// CrossSection is an un-normalized probability density over μ ∈ [-1, 1]
// at a fixed photon energy (keV).
//
// Max must be a global upper bound of Eval(energy, ·). A bound that is too
// small silently biases RejectionSampler; it is not checked at runtime.
type CrossSection interface {
	Eval(energy, mu float64) float64
	Max(energy float64) float64
}

// RejectionSampler draws μ distributed proportionally to a cross-section
// at one energy, using a flat envelope at the cross-section's Max.
type RejectionSampler struct {
	xs     CrossSection
	energy float64
	bound  float64
}

// NewRejectionSampler creates a sampler for xs at energy keV.
// The envelope height is evaluated once here.
func NewRejectionSampler(xs CrossSection, energy float64) *RejectionSampler {
	return &RejectionSampler{
		xs:     xs,
		energy: energy,
		bound:  xs.Max(energy),
	}
}

// Energy returns the energy the sampler was built for
func (s *RejectionSampler) Energy() float64 {
	return s.energy
}

// Bound returns the envelope height
func (s *RejectionSampler) Bound() float64 {
	return s.bound
}

// Sample returns one μ in [-1, 1).
// The expected number of iterations is Bound divided by the mean of the
// density over [-1, 1]; there is no iteration cap.
func (s *RejectionSampler) Sample(rng core.RandomSource) float64 {
	for {
		mu := rng.Uniform(-1, 1)
		u := rng.Uniform(0, s.bound)
		if u < s.xs.Eval(s.energy, mu) {
			return mu
		}
	}
}

// Samples returns an unbounded stream of independent draws
func (s *RejectionSampler) Samples(rng core.RandomSource) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for {
			if !yield(s.Sample(rng)) {
				return
			}
		}
	}
}
