// Package experiment describes a transport setup: where the source is,
// which material fills each point of the plane and how photons interact
// with each material.
package experiment

import (
	"fmt"
	"math"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/crosssection"
	"github.com/df07/go-photon-transport/pkg/geometry"
	"github.com/df07/go-photon-transport/pkg/particle"
)

// Material identifies the medium at a point. Setups may define further
// values beyond the ones declared here.
type Material int

const (
	Air Material = iota
	Absorber
	Detector
)

func (m Material) String() string {
	switch m {
	case Air:
		return "air"
	case Absorber:
		return "absorber"
	case Detector:
		return "detector"
	default:
		return fmt.Sprintf("material(%d)", int(m))
	}
}

// Event is the outcome of an interaction point
type Event int

const (
	Nothing Event = iota
	CoherentScatter
	IncoherentScatter
	Absorbed
)

func (e Event) String() string {
	switch e {
	case Nothing:
		return "nothing"
	case CoherentScatter:
		return "coherent"
	case IncoherentScatter:
		return "incoherent"
	case Absorbed:
		return "absorbed"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// FreePathKind tags a FreePath
type FreePathKind int

const (
	FixedPath FreePathKind = iota
	ExponentialPath
)

// FreePath is the law of the distance to the next interaction: either a
// fixed length or an exponential law with a mean free path.
type FreePath struct {
	Kind  FreePathKind
	Value float64 // length for FixedPath, mean for ExponentialPath (cm)
}

// Fixed returns a FreePath of exactly length. Zero means the photon
// interacts where it is without moving.
func Fixed(length float64) FreePath {
	return FreePath{Kind: FixedPath, Value: length}
}

// Exponential returns an exponentially distributed FreePath
func Exponential(mean float64) FreePath {
	return FreePath{Kind: ExponentialPath, Value: mean}
}

// Draw returns a step length for this law
func (f FreePath) Draw(rng core.RandomSource) float64 {
	if f.Kind == ExponentialPath {
		return rng.Exponential(f.Value)
	}
	return f.Value
}

func (f FreePath) String() string {
	if f.Kind == ExponentialPath {
		return fmt.Sprintf("Exponential(%g)", f.Value)
	}
	return fmt.Sprintf("Fixed(%g)", f.Value)
}

// Experiment supplies geometry and interaction physics to the transport
// engine. Implementations are read-only during a run and shared by every
// trial.
type Experiment interface {
	// Source emits the photons of each trial
	Source() particle.Source
	// XStart is the entrance plane; photons behind it are lost
	XStart() float64
	// MaterialAt returns the medium at location
	MaterialAt(location geometry.Point) Material
	// FreePath returns the step law in material at energy keV
	FreePath(material Material, energy float64) FreePath
	// ChooseEvent draws what happens at an interaction point
	ChooseEvent(material Material, energy float64, rng core.RandomSource) Event
	// CoherentScatter draws a signed deflection angle in radians
	CoherentScatter(material Material, energy float64, rng core.RandomSource) float64
	// IncoherentScatter draws a signed deflection angle and the new energy
	IncoherentScatter(material Material, energy float64, rng core.RandomSource) (angle, newEnergy float64)
}

// SampleScatter draws μ from xs at energy and converts it to a 2D
// deflection angle θ = arccos μ whose sign is flipped with probability 1/2.
func SampleScatter(xs crosssection.CrossSection, energy float64, rng core.RandomSource) (angle, mu float64) {
	mu = crosssection.NewRejectionSampler(xs, energy).Sample(rng)
	angle = math.Acos(mu)
	if rng.Bool() {
		angle = -angle
	}
	return angle, mu
}

// ChooseByMeanFreePath draws one of events with probability proportional
// to the reciprocal of its mean free path. Panics if a mean free path is
// zero, since its weight would be infinite.
func ChooseByMeanFreePath(rng core.RandomSource, events []Event, meanFreePaths []float64) Event {
	weights := make([]float64, len(meanFreePaths))
	for i, mfp := range meanFreePaths {
		weights[i] = 1 / mfp
	}
	return events[core.ChooseWeighted(rng, weights)]
}
