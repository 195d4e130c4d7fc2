// Package transport drives photons through an experiment until they are
// detected.
package transport

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/experiment"
	"github.com/df07/go-photon-transport/pkg/geometry"
	"github.com/df07/go-photon-transport/pkg/particle"
	"github.com/df07/go-photon-transport/pkg/table"
)

var (
	// ErrTrialLimit is returned when Options.MaxTrials photons were emitted without a detection
	ErrTrialLimit = errors.New("trial limit reached")
	// ErrStepLimit is returned when one photon exceeded Options.MaxSteps steps
	ErrStepLimit = errors.New("step limit reached")
)

// Status is the state of a photon between steps
type Status int

const (
	Propagating Status = iota
	Lost
	Detected
)

func (s Status) String() string {
	switch s {
	case Propagating:
		return "propagating"
	case Lost:
		return "lost"
	case Detected:
		return "detected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Options configures a Simulator
type Options struct {
	// MaxTrials caps the photons emitted per detection; 0 is unbounded
	MaxTrials int
	// MaxSteps caps the steps of one photon; 0 is unbounded
	MaxSteps int
	// Logger receives per-trial debug output; nil disables logging
	Logger *zap.Logger
}

// Counters accumulate over every call on a Simulator
type Counters struct {
	Emitted  int // photons emitted by the source
	Rejected int // photons that never reached the entrance plane
	Lost     int // photons lost after entering
	Detected int
	Steps    int
}

// Simulator runs trials of one experiment with one random source.
// It is not safe for concurrent use.
type Simulator struct {
	experiment experiment.Experiment
	rng        core.RandomSource
	options    Options
	logger     *zap.Logger
	counters   Counters
}

// NewSimulator creates a simulator for exp drawing from rng
func NewSimulator(exp experiment.Experiment, rng core.RandomSource, options Options) *Simulator {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		experiment: exp,
		rng:        rng,
		options:    options,
		logger:     logger,
	}
}

// SimulateOnePhoton runs trials of exp until a photon is detected and
// returns it. See Simulator.SimulateOnePhoton.
func SimulateOnePhoton(exp experiment.Experiment, rng core.RandomSource) (*particle.Photon, error) {
	return NewSimulator(exp, rng, Options{}).SimulateOnePhoton()
}

// Counters returns the accumulated trial counters
func (s *Simulator) Counters() Counters {
	return s.counters
}

// SimulateOnePhoton emits photons until one is detected and returns it.
//
// Photons that cannot reach the entrance plane or that get lost are
// discarded and a fresh one is emitted. Without limits the loop only ends
// if detection has a non-zero probability. A table lookup outside its
// domain aborts the call with an error wrapping *table.DomainError.
// Any other panic is re-raised from the deferred recover, so its stack
// trace starts there rather than at the original panic site.
func (s *Simulator) SimulateOnePhoton() (result *particle.Photon, err error) {
	defer func() {
		if r := recover(); r != nil {
			var domainErr *table.DomainError
			if e, ok := r.(error); ok && errors.As(e, &domainErr) {
				result, err = nil, fmt.Errorf("transport: %w", e)
				return
			}
			panic(r)
		}
	}()

	source := s.experiment.Source()
	for trial := 1; ; trial++ {
		if s.options.MaxTrials > 0 && trial > s.options.MaxTrials {
			return nil, fmt.Errorf("transport: %d photons emitted: %w", s.options.MaxTrials, ErrTrialLimit)
		}

		photon := source.Emit(s.rng)
		s.counters.Emitted++

		// Make sure it's headed towards the experiment
		if err := photon.GoToX(s.experiment.XStart()); err != nil {
			s.counters.Rejected++
			continue
		}

		status, err := s.track(photon)
		if err != nil {
			return nil, err
		}
		if status == Detected {
			s.counters.Detected++
			return photon, nil
		}
		s.counters.Lost++
	}
}

// track propagates photon until it is detected or lost
func (s *Simulator) track(photon *particle.Photon) (Status, error) {
	for steps := 1; ; steps++ {
		if s.options.MaxSteps > 0 && steps > s.options.MaxSteps {
			return Lost, fmt.Errorf("transport: %v after %d steps: %w", photon, s.options.MaxSteps, ErrStepLimit)
		}
		s.counters.Steps++

		status, err := s.propagate(photon)
		if err != nil || status != Propagating {
			return status, err
		}
	}
}

// propagate performs one step of the transport state machine: move the
// photon by a free path, then draw and apply an interaction.
func (s *Simulator) propagate(photon *particle.Photon) (Status, error) {
	exp := s.experiment

	material := exp.MaterialAt(photon.Location())
	path := exp.FreePath(material, photon.Energy())
	// A fixed zero path interacts in place
	if path.Kind != experiment.FixedPath || path.Value != 0 {
		if err := photon.Step(path.Draw(s.rng)); err != nil {
			return Lost, fmt.Errorf("transport: free path %v in %v: %w", path, material, err)
		}
	}

	// Leaving through the entrance plane loses the photon
	if photon.Location().X() < exp.XStart() {
		s.lost("left through entrance", photon, material)
		return Lost, nil
	}

	material = exp.MaterialAt(photon.Location())
	event := exp.ChooseEvent(material, photon.Energy(), s.rng)
	switch event {
	case experiment.Nothing:
		return Propagating, nil
	case experiment.Absorbed:
		if material == experiment.Detector {
			return Detected, nil
		}
		s.lost("absorbed", photon, material)
		return Lost, nil
	case experiment.CoherentScatter:
		photon.Rotate(exp.CoherentScatter(material, photon.Energy(), s.rng))
		return Propagating, nil
	case experiment.IncoherentScatter:
		angle, energy := exp.IncoherentScatter(material, photon.Energy(), s.rng)
		photon.Rotate(angle)
		photon.SetEnergy(energy)
		return Propagating, nil
	default:
		return Lost, fmt.Errorf("transport: unknown event %v in %v", event, material)
	}
}

func (s *Simulator) lost(reason string, photon *particle.Photon, material experiment.Material) {
	if ce := s.logger.Check(zap.DebugLevel, "photon lost"); ce != nil {
		location := photon.Location()
		ce.Write(
			zap.String("reason", reason),
			zap.Stringer("material", material),
			zap.Float64("x", location.X()),
			zap.Float64("y", location.Y()),
			zap.Float64("energy_kev", photon.Energy()),
		)
	}
}

// IsGeometric reports whether err comes from an impossible move
func IsGeometric(err error) bool {
	return errors.Is(err, geometry.ErrWrongDirection)
}
