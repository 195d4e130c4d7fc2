package crosssection

import (
	"fmt"

	"github.com/df07/go-photon-transport/pkg/table"
)

// Coherent is the Rayleigh cross-section corrected by a tabulated atomic
// form factor F(x):
//
//	dσ/dμ ∝ r_e² (1+μ²)/2 · F(x)²,  x = E·sin(θ/2)
//
// Eval panics with a *table.DomainError when x falls outside the table.
type Coherent struct {
	formFactor *table.Function
}

// NewCoherent creates a coherent cross-section from a form factor table
func NewCoherent(formFactor *table.Function) *Coherent {
	return &Coherent{formFactor: formFactor}
}

// FormFactor returns F(x) at energy and μ
func (c *Coherent) FormFactor(energy, mu float64) float64 {
	return c.formFactor.MustCall(MomentumTransfer(energy, mu))
}

// Eval implements CrossSection
func (c *Coherent) Eval(energy, mu float64) float64 {
	f := c.FormFactor(energy, mu)
	re2 := ClassicalElectronRadius * ClassicalElectronRadius
	return re2 * (1 + mu*mu) / 2 * f * f
}

// Max implements CrossSection by evaluating the forward direction.
// This assumes the density grows monotonically towards μ = 1, which holds
// for physical form factors but is not verified against the table.
func (c *Coherent) Max(energy float64) float64 {
	return c.Eval(energy, 1)
}

// Covers reports whether the form factor table covers every x reachable at energy
func (c *Coherent) Covers(energy float64) error {
	return covers(c.formFactor, "form factor", energy)
}

// Incoherent is the Klein–Nishina cross-section corrected by a tabulated
// incoherent scattering function S(x), with x = E·sin(θ/2).
//
// Eval panics with a *table.DomainError when x falls outside the table.
type Incoherent struct {
	scatteringFunction *table.Function
	maxS               float64
}

// NewIncoherent creates an incoherent cross-section from a scattering function table
func NewIncoherent(scatteringFunction *table.Function) *Incoherent {
	return &Incoherent{
		scatteringFunction: scatteringFunction,
		maxS:               scatteringFunction.MaxY(),
	}
}

// ScatteringFunction returns S(x) at energy and μ
func (c *Incoherent) ScatteringFunction(energy, mu float64) float64 {
	return c.scatteringFunction.MustCall(MomentumTransfer(energy, mu))
}

// Eval implements CrossSection
func (c *Incoherent) Eval(energy, mu float64) float64 {
	return KleinNishina(energy, mu) * c.ScatteringFunction(energy, mu)
}

// Max implements CrossSection as KleinNishina(E, 1) times the global
// maximum of S. The bound ignores where S peaks, so it is loose but safe.
func (c *Incoherent) Max(energy float64) float64 {
	return KleinNishina(energy, 1) * c.maxS
}

// Covers reports whether the scattering function table covers every x reachable at energy
func (c *Incoherent) Covers(energy float64) error {
	return covers(c.scatteringFunction, "scattering function", energy)
}

// covers checks x ∈ [0, energy], the range of E·sin(θ/2)
func covers(f *table.Function, name string, energy float64) error {
	if _, err := f.Call(0); err != nil {
		return fmt.Errorf("%s at x=0: %w", name, err)
	}
	if _, err := f.Call(energy); err != nil {
		return fmt.Errorf("%s at x=%g: %w", name, energy, err)
	}
	return nil
}
