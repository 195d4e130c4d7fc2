package stats

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-photon-transport/pkg/units"
)

type scalarStats = Statistics[units.Scalar, units.Scalar]

func twoPass(samples []float64) (mean, variance float64) {
	for _, x := range samples {
		mean += x
	}
	mean /= float64(len(samples))
	for _, x := range samples {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(len(samples) - 1)
	return mean, variance
}

func toScalars(samples []float64) []units.Scalar {
	result := make([]units.Scalar, len(samples))
	for i, x := range samples {
		result[i] = units.Scalar(x)
	}
	return result
}

func TestEmptyStatistics(t *testing.T) {
	var s scalarStats
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, units.Scalar(0), s.Mean())

	_, ok := s.Variance()
	assert.False(t, ok)
	_, ok = s.StandardDeviation()
	assert.False(t, ok)
	_, ok = s.ErrorOfMean()
	assert.False(t, ok)
}

func TestSingleSample(t *testing.T) {
	s := New[units.Scalar, units.Scalar]()
	s.Push(3.5)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, units.Scalar(3.5), s.Mean())

	_, ok := s.Variance()
	assert.False(t, ok, "variance needs at least two samples")
	assert.Equal(t, "n=1 mean=3.5", s.String())
}

func TestKnownValues(t *testing.T) {
	s := FromSlice[units.Scalar, units.Scalar](toScalars([]float64{2, 4, 4, 4, 5, 5, 7, 9}))

	assert.Equal(t, 8, s.Count())
	assert.InDelta(t, 5.0, float64(s.Mean()), 1e-12)

	variance, ok := s.Variance()
	require.True(t, ok)
	assert.InDelta(t, 32.0/7.0, float64(variance), 1e-12)

	stddev, ok := s.StandardDeviation()
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(32.0/7.0), float64(stddev), 1e-12)

	errOfMean, ok := s.ErrorOfMean()
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(32.0/7.0/8.0), float64(errOfMean), 1e-12)
}

func TestMatchesTwoPass(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	for _, n := range []int{2, 3, 10, 1000, 100000} {
		samples := make([]float64, n)
		for i := range samples {
			// Large offset stresses the cancellation a naive sum-of-squares suffers from
			samples[i] = 1e6 + random.NormFloat64()*3
		}

		s := FromSlice[units.Scalar, units.Scalar](toScalars(samples))
		wantMean, wantVariance := twoPass(samples)

		assert.InEpsilon(t, wantMean, float64(s.Mean()), 1e-9, "n=%d", n)
		variance, ok := s.Variance()
		require.True(t, ok)
		assert.InEpsilon(t, wantVariance, float64(variance), 1e-6, "n=%d", n)
	}
}

func TestPermutationInvariance(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	samples := make([]units.Scalar, 10000)
	for i := range samples {
		samples[i] = units.Scalar(random.ExpFloat64())
	}

	forward := FromSlice[units.Scalar, units.Scalar](samples)

	shuffled := slices.Clone(samples)
	random.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	permuted := FromSlice[units.Scalar, units.Scalar](shuffled)

	assert.InEpsilon(t, float64(forward.Mean()), float64(permuted.Mean()), 1e-10)
	v1, _ := forward.Variance()
	v2, _ := permuted.Variance()
	assert.InEpsilon(t, float64(v1), float64(v2), 1e-9)
}

func TestFromSeq(t *testing.T) {
	samples := toScalars([]float64{1, 2, 3, 4})
	s := FromSeq[units.Scalar, units.Scalar](slices.Values(samples))
	assert.Equal(t, 4, s.Count())
	assert.InDelta(t, 2.5, float64(s.Mean()), 1e-12)

	s.PushAll(slices.Values(toScalars([]float64{5})))
	assert.Equal(t, 5, s.Count())
	assert.InDelta(t, 3.0, float64(s.Mean()), 1e-12)
}

func TestDimensionedQuantities(t *testing.T) {
	lengths := FromSlice[units.Length, units.Area]([]units.Length{1, 2, 3})

	var variance units.Area
	variance, ok := lengths.Variance()
	require.True(t, ok)
	assert.InDelta(t, 1.0, float64(variance), 1e-12)

	var stddev units.Length
	stddev, ok = lengths.StandardDeviation()
	require.True(t, ok)
	assert.InDelta(t, 1.0, float64(stddev), 1e-12)

	energies := New[units.Energy, units.EnergySquared]()
	energies.Push(600)
	energies.Push(660)
	energySpread, ok := energies.Variance()
	require.True(t, ok)
	assert.InDelta(t, 1800.0, float64(energySpread), 1e-9)
}

func TestString(t *testing.T) {
	s := FromSlice[units.Scalar, units.Scalar](toScalars([]float64{1, 3}))
	assert.Contains(t, s.String(), "n=2 mean=2 stddev=1.41")
}
