// Package integrate estimates integrals by Monte Carlo sampling. Results are
// returned as statistics so the mean is the estimate and the error of the
// mean its uncertainty.
package integrate

import (
	"fmt"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/stats"
	"github.com/df07/go-photon-transport/pkg/units"
)

func validate(a, b float64, n int) error {
	if !(a < b) {
		return fmt.Errorf("integrate: empty range [%g, %g)", a, b)
	}
	if n < 0 {
		return fmt.Errorf("integrate: negative sample size %d", n)
	}
	return nil
}

// Integrate draws n points x ~ U(a, b) and accumulates f(x)·(b-a)
func Integrate[X stats.Quantity[X, S], S stats.Squared[S, X]](rng core.RandomSource, f func(float64) X, a, b float64, n int) (*stats.Statistics[X, S], error) {
	if err := validate(a, b, n); err != nil {
		return nil, err
	}
	width := b - a
	result := stats.New[X, S]()
	for i := 0; i < n; i++ {
		result.Push(f(rng.Uniform(a, b)).Scale(width))
	}
	return result, nil
}

// Float integrates a plain real function
func Float(rng core.RandomSource, f func(float64) float64, a, b float64, n int) (*stats.Statistics[units.Scalar, units.Scalar], error) {
	return Integrate[units.Scalar, units.Scalar](rng, func(x float64) units.Scalar {
		return units.Scalar(f(x))
	}, a, b, n)
}

// HitOrMiss estimates the area of the region where inside holds by drawing
// n points uniformly from [0, width)×[0, height)
func HitOrMiss(rng core.RandomSource, inside func(x, y float64) bool, width, height float64, n int) (*stats.Statistics[units.Scalar, units.Scalar], error) {
	if !(width > 0 && height > 0) {
		return nil, fmt.Errorf("integrate: empty box %gx%g", width, height)
	}
	if n < 0 {
		return nil, fmt.Errorf("integrate: negative sample size %d", n)
	}
	area := units.Scalar(width * height)
	result := stats.New[units.Scalar, units.Scalar]()
	for i := 0; i < n; i++ {
		x := rng.Uniform(0, width)
		y := rng.Uniform(0, height)
		if inside(x, y) {
			result.Push(area)
		} else {
			result.Push(0)
		}
	}
	return result, nil
}
