package transport

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/experiment"
	"github.com/df07/go-photon-transport/pkg/geometry"
	"github.com/df07/go-photon-transport/pkg/particle"
	"github.com/df07/go-photon-transport/pkg/table"
)

// corridor is air from XStart up to DetectorX followed by a detector.
// Zero-valued hooks fall back to the straight-corridor behavior.
type corridor struct {
	source    particle.Source
	xStart    float64
	detectorX float64
	airPath   experiment.FreePath
	airEvent  func(rng core.RandomSource) experiment.Event
	scatter   func(energy float64) (float64, float64)
}

func newCorridor() *corridor {
	return &corridor{
		source:    particle.NewPointSource(geometry.NewPoint(0, 0), 100),
		xStart:    0,
		detectorX: 10,
		airPath:   experiment.Exponential(1.0),
	}
}

func (c *corridor) Source() particle.Source { return c.source }
func (c *corridor) XStart() float64         { return c.xStart }

func (c *corridor) MaterialAt(location geometry.Point) experiment.Material {
	if location.X() >= c.detectorX {
		return experiment.Detector
	}
	return experiment.Air
}

func (c *corridor) FreePath(material experiment.Material, energy float64) experiment.FreePath {
	if material == experiment.Detector {
		return experiment.Fixed(0)
	}
	return c.airPath
}

func (c *corridor) ChooseEvent(material experiment.Material, energy float64, rng core.RandomSource) experiment.Event {
	if material == experiment.Detector {
		return experiment.Absorbed
	}
	if c.airEvent != nil {
		return c.airEvent(rng)
	}
	return experiment.Nothing
}

func (c *corridor) CoherentScatter(material experiment.Material, energy float64, rng core.RandomSource) float64 {
	angle, _ := c.scatter(energy)
	return angle
}

func (c *corridor) IncoherentScatter(material experiment.Material, energy float64, rng core.RandomSource) (float64, float64) {
	return c.scatter(energy)
}

func TestSimulateOnePhotonReachesDetector(t *testing.T) {
	exp := newCorridor()
	rng := core.NewSeededSource(42)

	for i := 0; i < 500; i++ {
		photon, err := SimulateOnePhoton(exp, rng)
		require.NoError(t, err)
		require.GreaterOrEqual(t, photon.Location().X(), 10.0)
		require.Equal(t, 100.0, photon.Energy())
	}
}

func TestDetectorInteractsWithoutMoving(t *testing.T) {
	exp := newCorridor()
	sim := NewSimulator(exp, core.NewSeededSource(1), Options{})

	photon := particle.NewPhoton(geometry.NewPoint(12, 3), geometry.FromAngle(0.3), 100)
	status, err := sim.propagate(photon)

	require.NoError(t, err)
	assert.Equal(t, Detected, status)
	assert.Equal(t, geometry.NewPoint(12, 3), photon.Location())
}

func TestLeavingThroughEntranceIsLost(t *testing.T) {
	exp := newCorridor()
	exp.airPath = experiment.Fixed(1)
	sim := NewSimulator(exp, core.NewSeededSource(1), Options{})

	photon := particle.NewPhoton(geometry.NewPoint(0.5, 0), geometry.FromAngle(3.14159), 100)
	status, err := sim.propagate(photon)

	require.NoError(t, err)
	assert.Equal(t, Lost, status)
}

func TestNegativeFreePathIsGeometricError(t *testing.T) {
	exp := newCorridor()
	exp.airPath = experiment.Fixed(-1)

	_, err := SimulateOnePhoton(exp, core.NewSeededSource(3))

	require.Error(t, err)
	assert.ErrorIs(t, err, geometry.ErrWrongDirection)
	assert.True(t, IsGeometric(err))
}

func TestScatteringUpdatesPhoton(t *testing.T) {
	exp := newCorridor()
	exp.airPath = experiment.Fixed(0.5)
	first := true
	exp.airEvent = func(rng core.RandomSource) experiment.Event {
		if first {
			first = false
			return experiment.IncoherentScatter
		}
		return experiment.Nothing
	}
	exp.scatter = func(energy float64) (float64, float64) { return 0, energy / 2 }
	exp.source = particle.NewEastPointingSource(geometry.NewPoint(0, 0), 100)

	sim := NewSimulator(exp, core.NewSeededSource(9), Options{})
	photon, err := sim.SimulateOnePhoton()

	require.NoError(t, err)
	assert.Equal(t, 50.0, photon.Energy())
	assert.Equal(t, 1, sim.Counters().Detected)
}

// sequenceSource emits photons from the origin along directions in turn
type sequenceSource struct {
	directions []geometry.Direction
	next       int
}

func (s *sequenceSource) Emit(core.RandomSource) *particle.Photon {
	d := s.directions[s.next%len(s.directions)]
	s.next++
	return particle.NewPhoton(geometry.NewPoint(0, 0), d, 100)
}

func TestParallelPhotonIsRejected(t *testing.T) {
	north, err := geometry.NewDirection(0, 1)
	require.NoError(t, err)
	east, err := geometry.NewDirection(1, 0)
	require.NoError(t, err)

	exp := newCorridor()
	exp.xStart = 0.5
	exp.source = &sequenceSource{directions: []geometry.Direction{north, east}}

	sim := NewSimulator(exp, core.NewSeededSource(4), Options{MaxSteps: 1000})
	photon, err := sim.SimulateOnePhoton()

	require.NoError(t, err)
	assert.GreaterOrEqual(t, photon.Location().X(), 10.0)
	assert.Equal(t, Counters{Emitted: 2, Rejected: 1, Detected: 1, Steps: sim.Counters().Steps}, sim.Counters())
}

func TestTrialLimit(t *testing.T) {
	exp := newCorridor()
	exp.airEvent = func(core.RandomSource) experiment.Event { return experiment.Absorbed }

	sim := NewSimulator(exp, core.NewSeededSource(5), Options{MaxTrials: 25})
	_, err := sim.SimulateOnePhoton()

	require.ErrorIs(t, err, ErrTrialLimit)
	counters := sim.Counters()
	assert.Equal(t, 25, counters.Emitted)
	assert.Equal(t, counters.Emitted, counters.Rejected+counters.Lost)
	assert.Zero(t, counters.Detected)
}

func TestStepLimit(t *testing.T) {
	exp := newCorridor()
	exp.detectorX = 1e12
	exp.source = particle.NewEastPointingSource(geometry.NewPoint(0, 0), 100)

	sim := NewSimulator(exp, core.NewSeededSource(5), Options{MaxSteps: 50})
	_, err := sim.SimulateOnePhoton()

	require.ErrorIs(t, err, ErrStepLimit)
}

func TestDomainErrorIsReturned(t *testing.T) {
	short, err := table.FromPoints([][2]float64{{0, 1}, {10, 1}})
	require.NoError(t, err)

	exp := newCorridor()
	exp.airEvent = func(core.RandomSource) experiment.Event {
		short.MustCall(100)
		return experiment.Nothing
	}

	_, err = SimulateOnePhoton(exp, core.NewSeededSource(5))
	require.ErrorIs(t, err, table.ErrOutOfDomain)

	var domainErr *table.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, 100.0, domainErr.X)
}

func TestOtherPanicsPropagate(t *testing.T) {
	exp := newCorridor()
	exp.airEvent = func(core.RandomSource) experiment.Event { panic("boom") }

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = SimulateOnePhoton(exp, core.NewSeededSource(5))
	})
}

func TestLostPhotonsAreLogged(t *testing.T) {
	observed, logs := observer.New(zap.DebugLevel)
	exp := newCorridor()
	exp.airPath = experiment.Fixed(1)
	// Turn around now and then so photons leave through the entrance
	exp.airEvent = func(rng core.RandomSource) experiment.Event {
		if rng.Uniform(0, 1) < 0.2 {
			return experiment.CoherentScatter
		}
		return experiment.Nothing
	}
	exp.scatter = func(energy float64) (float64, float64) { return math.Pi, energy }

	sim := NewSimulator(exp, core.NewSeededSource(11), Options{Logger: zap.New(observed)})
	_, err := sim.Run(20, nil)
	require.NoError(t, err)

	lost := logs.FilterMessage("photon lost").All()
	require.NotEmpty(t, lost)
	assert.Len(t, lost, sim.Counters().Lost)
	assert.Equal(t, "left through entrance", lost[0].ContextMap()["reason"])
	assert.Equal(t, "air", lost[0].ContextMap()["material"])
	assert.Equal(t, 1, logs.FilterMessage("run complete").Len())
}

const collimatorYAML = `
source:
  kind: isotropic
  x: 0
  y: 0
  energy_kev: 661.7
layout:
  x_start: 0.5
  absorber_start: 0.5
  absorber_end: 1.5
  aperture: 0.1
  detector_x: 11.5
  air_step: 0.1
tables:
  form_factor:
    rows: [[0, 82], [50, 40], [200, 10], [1000, 1]]
  scattering_function:
    rows: [[0, 0], [50, 40], [200, 75], [1000, 82]]
  mean_free_paths:
    rows:
      - [0.1, 0.001, 1, 1, 0.001]
      - [100, 0.2, 5, 2, 0.3]
      - [700, 1.0, 20, 1.5, 4]
limits:
  max_trials: 1000000
`

func TestRunCollimator(t *testing.T) {
	cfg, err := experiment.LoadConfig(strings.NewReader(collimatorYAML))
	require.NoError(t, err)
	exp, err := cfg.Build()
	require.NoError(t, err)

	sim := NewSimulator(exp, core.NewSeededSource(2024), Options{MaxTrials: cfg.Limits.MaxTrials})
	var detected []*particle.Photon
	tally, err := sim.Run(200, func(p *particle.Photon) { detected = append(detected, p) })
	require.NoError(t, err)

	require.Len(t, detected, 200)
	for _, photon := range detected {
		assert.Greater(t, photon.Location().X(), 11.5)
		assert.LessOrEqual(t, photon.Energy(), 661.7)
		assert.Greater(t, photon.Energy(), 0.0)
	}

	counters := tally.Counters
	assert.Equal(t, 200, counters.Detected)
	assert.Equal(t, counters.Emitted, counters.Rejected+counters.Lost+counters.Detected)
	assert.Equal(t, 200, tally.Energy.Count())
	assert.Equal(t, 200, tally.Radius.Count())
	assert.Greater(t, tally.Efficiency(), 0.0)
	assert.Less(t, tally.Efficiency(), 1.0)

	meanTrials := float64(tally.TrialsPerPhoton.Mean())
	assert.InDelta(t, float64(counters.Emitted)/200, meanTrials, 1e-9)
}
