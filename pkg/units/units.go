// Package units defines the float64 quantity newtypes used at the
// statistics boundary. Each value type knows the type of its square so
// variances keep their physical dimension.
package units

import "math"

// Scalar is a dimensionless number
type Scalar float64

// Add returns s+o
func (s Scalar) Add(o Scalar) Scalar { return s + o }

// Sub returns s-o
func (s Scalar) Sub(o Scalar) Scalar { return s - o }

// Div returns s/n
func (s Scalar) Div(n float64) Scalar { return s / Scalar(n) }

// Scale returns s·f
func (s Scalar) Scale(f float64) Scalar { return s * Scalar(f) }

// Mul returns s·o; a scalar is its own square
func (s Scalar) Mul(o Scalar) Scalar { return s * o }

// Sqrt returns the square root of s
func (s Scalar) Sqrt() Scalar { return Scalar(math.Sqrt(float64(s))) }

// Float64 returns s as a plain number
func (s Scalar) Float64() float64 { return float64(s) }

// Length is a distance in cm
type Length float64

// Add returns l+o
func (l Length) Add(o Length) Length { return l + o }

// Sub returns l-o
func (l Length) Sub(o Length) Length { return l - o }

// Div returns l/n
func (l Length) Div(n float64) Length { return l / Length(n) }

// Scale returns l·f
func (l Length) Scale(f float64) Length { return l * Length(f) }

// Mul returns the area l·o
func (l Length) Mul(o Length) Area { return Area(l) * Area(o) }

// Float64 returns l in cm
func (l Length) Float64() float64 { return float64(l) }

// Area is a squared length in cm²
type Area float64

// Add returns a+o
func (a Area) Add(o Area) Area { return a + o }

// Div returns a/n
func (a Area) Div(n float64) Area { return a / Area(n) }

// Sqrt returns the side length of a
func (a Area) Sqrt() Length { return Length(math.Sqrt(float64(a))) }

// Float64 returns a in cm²
func (a Area) Float64() float64 { return float64(a) }

// Energy is a photon energy in keV
type Energy float64

// Add returns e+o
func (e Energy) Add(o Energy) Energy { return e + o }

// Sub returns e-o
func (e Energy) Sub(o Energy) Energy { return e - o }

// Div returns e/n
func (e Energy) Div(n float64) Energy { return e / Energy(n) }

// Scale returns e·f
func (e Energy) Scale(f float64) Energy { return e * Energy(f) }

// Mul returns e·o in keV²
func (e Energy) Mul(o Energy) EnergySquared { return EnergySquared(e) * EnergySquared(o) }

// Float64 returns e in keV
func (e Energy) Float64() float64 { return float64(e) }

// EnergySquared is the unit of an energy variance, keV²
type EnergySquared float64

// Add returns e+o
func (e EnergySquared) Add(o EnergySquared) EnergySquared { return e + o }

// Div returns e/n
func (e EnergySquared) Div(n float64) EnergySquared { return e / EnergySquared(n) }

// Sqrt returns the energy whose square is e
func (e EnergySquared) Sqrt() Energy { return Energy(math.Sqrt(float64(e))) }

// Float64 returns e in keV²
func (e EnergySquared) Float64() float64 { return float64(e) }
