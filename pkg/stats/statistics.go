// Package stats accumulates running statistics of a sample stream with
// Welford's online algorithm.
//
// Statistics is generic over the value type X and the type S of its
// square, so accumulating lengths yields a variance in squared lengths.
// The zero value of X and S must be the additive zero.
package stats

import (
	"fmt"
	"iter"
)

// Quantity is a value that can be accumulated: it supports addition,
// subtraction, division by a count, scaling by a factor and multiplication
// into its square type.
type Quantity[X any, S any] interface {
	Add(X) X
	Sub(X) X
	Div(float64) X
	Scale(float64) X
	Mul(X) S
}

// Squared is the square type of a Quantity; its square root is the Quantity
type Squared[S any, X any] interface {
	Add(S) S
	Div(float64) S
	Sqrt() X
}

// Statistics holds the count, running mean and running sum of squared
// deviations of the samples pushed so far. The zero value is empty and
// ready to use. Samples cannot be removed and two accumulators cannot be
// merged.
type Statistics[X Quantity[X, S], S Squared[S, X]] struct {
	count        int
	mean         X
	sumOfSquares S
}

// New returns an empty accumulator
func New[X Quantity[X, S], S Squared[S, X]]() *Statistics[X, S] {
	return &Statistics[X, S]{}
}

// FromSeq accumulates every value produced by seq
func FromSeq[X Quantity[X, S], S Squared[S, X]](seq iter.Seq[X]) *Statistics[X, S] {
	s := New[X, S]()
	s.PushAll(seq)
	return s
}

// FromSlice accumulates the given samples in order
func FromSlice[X Quantity[X, S], S Squared[S, X]](samples []X) *Statistics[X, S] {
	s := New[X, S]()
	for _, x := range samples {
		s.Push(x)
	}
	return s
}

// Push adds one sample.
// delta2 is computed against the updated mean; this ordering is what keeps
// the update numerically stable.
func (s *Statistics[X, S]) Push(x X) {
	s.count++
	delta := x.Sub(s.mean)
	s.mean = s.mean.Add(delta.Div(float64(s.count)))
	delta2 := x.Sub(s.mean)
	s.sumOfSquares = s.sumOfSquares.Add(delta.Mul(delta2))
}

// PushAll adds every value produced by seq
func (s *Statistics[X, S]) PushAll(seq iter.Seq[X]) {
	for x := range seq {
		s.Push(x)
	}
}

// Count returns the number of samples
func (s *Statistics[X, S]) Count() int {
	return s.count
}

// Mean returns the arithmetic mean, or the zero value when empty
func (s *Statistics[X, S]) Mean() X {
	return s.mean
}

// Variance returns the unbiased sample variance.
// ok is false when fewer than two samples were pushed.
func (s *Statistics[X, S]) Variance() (variance S, ok bool) {
	if s.count < 2 {
		return variance, false
	}
	return s.sumOfSquares.Div(float64(s.count - 1)), true
}

// StandardDeviation returns the square root of Variance
func (s *Statistics[X, S]) StandardDeviation() (stddev X, ok bool) {
	variance, ok := s.Variance()
	if !ok {
		return stddev, false
	}
	return variance.Sqrt(), true
}

// ErrorOfMean returns the statistical uncertainty of Mean,
// sqrt(variance/count)
func (s *Statistics[X, S]) ErrorOfMean() (e X, ok bool) {
	variance, ok := s.Variance()
	if !ok {
		return e, false
	}
	return variance.Div(float64(s.count)).Sqrt(), true
}

// String summarizes the accumulated statistics
func (s *Statistics[X, S]) String() string {
	stddev, ok := s.StandardDeviation()
	if !ok {
		return fmt.Sprintf("n=%d mean=%v", s.count, s.mean)
	}
	errOfMean, _ := s.ErrorOfMean()
	return fmt.Sprintf("n=%d mean=%v stddev=%v error=%v", s.count, s.mean, stddev, errOfMean)
}
