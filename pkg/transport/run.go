package transport

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-photon-transport/pkg/particle"
	"github.com/df07/go-photon-transport/pkg/stats"
	"github.com/df07/go-photon-transport/pkg/units"
)

// Tally aggregates the detected photons of a run
type Tally struct {
	Energy *stats.Statistics[units.Energy, units.EnergySquared]
	// Radius is the distance |y| from the beam axis at detection
	Radius *stats.Statistics[units.Length, units.Area]
	// TrialsPerPhoton is the number of emissions needed per detection
	TrialsPerPhoton *stats.Statistics[units.Scalar, units.Scalar]
	Counters        Counters
	Elapsed         time.Duration
}

// NewTally creates an empty tally
func NewTally() *Tally {
	return &Tally{
		Energy:          stats.New[units.Energy, units.EnergySquared](),
		Radius:          stats.New[units.Length, units.Area](),
		TrialsPerPhoton: stats.New[units.Scalar, units.Scalar](),
	}
}

// Add records one detected photon found after trials emissions
func (t *Tally) Add(photon *particle.Photon, trials int) {
	t.Energy.Push(units.Energy(photon.Energy()))
	t.Radius.Push(units.Length(math.Abs(photon.Location().Y())))
	t.TrialsPerPhoton.Push(units.Scalar(trials))
}

// Efficiency returns the fraction of emitted photons that were detected
func (t *Tally) Efficiency() float64 {
	if t.Counters.Emitted == 0 {
		return 0
	}
	return float64(t.Counters.Detected) / float64(t.Counters.Emitted)
}

// Run simulates until n photons are detected, passing each one to observe
// (which may be nil) and tallying them.
func (s *Simulator) Run(n int, observe func(*particle.Photon)) (*Tally, error) {
	tally := NewTally()
	start := time.Now()
	before := s.counters

	for i := 0; i < n; i++ {
		emitted := s.counters.Emitted
		photon, err := s.SimulateOnePhoton()
		if err != nil {
			return nil, fmt.Errorf("photon %d of %d: %w", i+1, n, err)
		}
		tally.Add(photon, s.counters.Emitted-emitted)
		if observe != nil {
			observe(photon)
		}
	}

	tally.Elapsed = time.Since(start)
	tally.Counters = Counters{
		Emitted:  s.counters.Emitted - before.Emitted,
		Rejected: s.counters.Rejected - before.Rejected,
		Lost:     s.counters.Lost - before.Lost,
		Detected: s.counters.Detected - before.Detected,
		Steps:    s.counters.Steps - before.Steps,
	}

	s.logger.Info("run complete",
		zap.Int("detected", tally.Counters.Detected),
		zap.Int("emitted", tally.Counters.Emitted),
		zap.Int("rejected", tally.Counters.Rejected),
		zap.Int("lost", tally.Counters.Lost),
		zap.Int("steps", tally.Counters.Steps),
		zap.Float64("efficiency", tally.Efficiency()),
		zap.Duration("elapsed", tally.Elapsed),
	)
	return tally, nil
}
