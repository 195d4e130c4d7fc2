package core

import (
	"fmt"
	"math"
)

// ChooseWeighted performs a categorical draw over un-normalized weights.
// It draws u in [0, sum(weights)) and returns the index of the first
// category whose cumulative weight exceeds u.
// Panics if weights is empty or contains a negative, infinite or NaN value.
func ChooseWeighted(rng RandomSource, weights []float64) int {
	if len(weights) == 0 {
		panic("core: ChooseWeighted called with no weights")
	}

	total := 0.0
	for i, weight := range weights {
		if !(weight >= 0) || math.IsInf(weight, 1) {
			panic(fmt.Sprintf("core: invalid weight %g at index %d", weight, i))
		}
		total += weight
	}

	u := rng.Uniform(0, total)
	var cumulative float64
	for i, weight := range weights {
		cumulative += weight
		if cumulative > u {
			return i
		}
	}

	// Rounding can leave u == total; fall back to the last non-zero category
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return len(weights) - 1
}
