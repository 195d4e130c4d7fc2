package experiment

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/crosssection"
	"github.com/df07/go-photon-transport/pkg/geometry"
	"github.com/df07/go-photon-transport/pkg/particle"
	"github.com/df07/go-photon-transport/pkg/table"
)

// Layout is the geometry of a slit collimator: an absorber slab between
// AbsorberStart and AbsorberEnd with an open slit |y| <= Aperture, followed
// by air and a detector filling x > DetectorX. All lengths in cm.
type Layout struct {
	XStart        float64
	AbsorberStart float64
	AbsorberEnd   float64
	Aperture      float64
	DetectorX     float64
	AirStep       float64 // fixed step length through air
}

// Validate checks that the layout is well ordered
func (l Layout) Validate() error {
	switch {
	case !(l.AbsorberEnd > l.AbsorberStart):
		return fmt.Errorf("absorber end %g must be after start %g", l.AbsorberEnd, l.AbsorberStart)
	case !(l.DetectorX >= l.AbsorberEnd):
		return fmt.Errorf("detector %g must not overlap absorber ending at %g", l.DetectorX, l.AbsorberEnd)
	case l.Aperture < 0:
		return fmt.Errorf("negative aperture %g", l.Aperture)
	case !(l.AirStep > 0):
		return fmt.Errorf("air step %g must be positive", l.AirStep)
	}
	return nil
}

// MeanFreePaths holds the mean free paths (cm) of the absorber as
// functions of energy (keV)
type MeanFreePaths struct {
	Total         *table.Function
	Coherent      *table.Function
	Incoherent    *table.Function
	Photoelectric *table.Function
}

func (m MeanFreePaths) covers(energy float64) error {
	named := []struct {
		name string
		f    *table.Function
	}{
		{"total", m.Total},
		{"coherent", m.Coherent},
		{"incoherent", m.Incoherent},
		{"photoelectric", m.Photoelectric},
	}
	for _, n := range named {
		if n.f == nil {
			return fmt.Errorf("%s mean free path table missing", n.name)
		}
		if _, err := n.f.Call(energy); err != nil {
			return fmt.Errorf("%s mean free path: %w", n.name, err)
		}
		// Interaction weights are inverse paths
		xs := n.f.XData()
		for i, y := range n.f.YData() {
			if !(y > 0) {
				return fmt.Errorf("%s mean free path %g at %g keV must be positive", n.name, y, xs[i])
			}
		}
	}
	return nil
}

// coverage is implemented by table-backed cross-sections
type coverage interface {
	Covers(energy float64) error
}

// Collimator is a slit collimator in front of a detector plane
type Collimator struct {
	source     particle.Source
	energy     float64
	layout     Layout
	coherent   crosssection.CrossSection
	incoherent crosssection.CrossSection
	paths      MeanFreePaths
}

var (
	absorberEvents = []Event{CoherentScatter, IncoherentScatter, Absorbed}

	_ Experiment = (*Collimator)(nil)
)

// NewCollimator assembles a collimator experiment. energy is the source
// energy in keV; every table must cover it. Tables are not checked below
// it, so a lookup at an energy reached after scattering can still fail.
func NewCollimator(source particle.Source, energy float64, layout Layout, coherent, incoherent crosssection.CrossSection, paths MeanFreePaths) (*Collimator, error) {
	if source == nil {
		return nil, errors.New("collimator: no source")
	}
	if !(energy > 0) {
		return nil, fmt.Errorf("collimator: source energy %g must be positive", energy)
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("collimator layout: %w", err)
	}
	if coherent == nil || incoherent == nil {
		return nil, errors.New("collimator: missing cross-section")
	}
	for _, xs := range []crosssection.CrossSection{coherent, incoherent} {
		if c, ok := xs.(coverage); ok {
			if err := c.Covers(energy); err != nil {
				return nil, fmt.Errorf("collimator: %w", err)
			}
		}
	}
	if err := paths.covers(energy); err != nil {
		return nil, fmt.Errorf("collimator: %w", err)
	}

	return &Collimator{
		source:     source,
		energy:     energy,
		layout:     layout,
		coherent:   coherent,
		incoherent: incoherent,
		paths:      paths,
	}, nil
}

// Layout returns the collimator geometry
func (c *Collimator) Layout() Layout {
	return c.layout
}

// SourceEnergy returns the energy of emitted photons in keV
func (c *Collimator) SourceEnergy() float64 {
	return c.energy
}

// Coherent returns the cross-section used for coherent scattering
func (c *Collimator) Coherent() crosssection.CrossSection {
	return c.coherent
}

// Incoherent returns the cross-section used for incoherent scattering
func (c *Collimator) Incoherent() crosssection.CrossSection {
	return c.incoherent
}

// Source implements Experiment
func (c *Collimator) Source() particle.Source {
	return c.source
}

// XStart implements Experiment
func (c *Collimator) XStart() float64 {
	return c.layout.XStart
}

// MaterialAt implements Experiment
func (c *Collimator) MaterialAt(location geometry.Point) Material {
	x, y := location.X(), location.Y()
	switch {
	case c.layout.AbsorberStart < x && x < c.layout.AbsorberEnd && math.Abs(y) > c.layout.Aperture:
		return Absorber
	case x > c.layout.DetectorX:
		return Detector
	default:
		return Air
	}
}

// FreePath implements Experiment
func (c *Collimator) FreePath(material Material, energy float64) FreePath {
	switch material {
	case Detector:
		return Fixed(0)
	case Absorber:
		return Exponential(c.paths.Total.MustCall(energy))
	default:
		return Fixed(c.layout.AirStep)
	}
}

// ChooseEvent implements Experiment
func (c *Collimator) ChooseEvent(material Material, energy float64, rng core.RandomSource) Event {
	switch material {
	case Detector:
		return Absorbed
	case Absorber:
		return ChooseByMeanFreePath(rng, absorberEvents, []float64{
			c.paths.Coherent.MustCall(energy),
			c.paths.Incoherent.MustCall(energy),
			c.paths.Photoelectric.MustCall(energy),
		})
	default:
		return Nothing
	}
}

// CoherentScatter implements Experiment
func (c *Collimator) CoherentScatter(_ Material, energy float64, rng core.RandomSource) float64 {
	angle, _ := SampleScatter(c.coherent, energy, rng)
	return angle
}

// IncoherentScatter implements Experiment
func (c *Collimator) IncoherentScatter(_ Material, energy float64, rng core.RandomSource) (float64, float64) {
	angle, mu := SampleScatter(c.incoherent, energy, rng)
	return angle, crosssection.ComptonScatter(energy, mu)
}
