package crosssection

import "math"

const (
	// ElectronRestEnergy is mₑc² in keV
	ElectronRestEnergy = 510.99895
	// ClassicalElectronRadius is r_e in m
	ClassicalElectronRadius = 2.8179403262e-15
)

// KleinNishina returns the Compton differential cross-section off a free
// electron at energy keV and μ = cos θ, in m².
func KleinNishina(energy, mu float64) float64 {
	kappa := energy / ElectronRestEnergy
	kappaAntiMu := kappa * (1 - mu)
	alpha := 1 / (1 + kappaAntiMu)
	re2 := ClassicalElectronRadius * ClassicalElectronRadius
	return re2 / 2 * alpha * alpha * (alpha + kappaAntiMu + mu*mu)
}

// ComptonScatter returns the photon energy after Compton scattering by
// μ = cos θ. At μ = 1 the energy is returned unchanged.
func ComptonScatter(energy, mu float64) float64 {
	kappa := energy / ElectronRestEnergy
	return energy / (1 + kappa*(1-mu))
}

// MomentumTransfer returns x = E·sin(θ/2) with θ = arccos μ, the argument
// of the tabulated form factor and scattering function.
func MomentumTransfer(energy, mu float64) float64 {
	angle := math.Acos(math.Max(-1, math.Min(1, mu)))
	return energy * math.Sin(angle/2)
}

// KleinNishinaOnly is the free-electron Compton cross-section without any
// binding correction
type KleinNishinaOnly struct{}

// Eval implements CrossSection
func (KleinNishinaOnly) Eval(energy, mu float64) float64 {
	return KleinNishina(energy, mu)
}

// Max implements CrossSection. Klein–Nishina is largest in the forward
// direction for every energy.
func (KleinNishinaOnly) Max(energy float64) float64 {
	return KleinNishina(energy, 1)
}
