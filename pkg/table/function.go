// Package table provides linearly interpolated tabulated functions, such as
// atomic form factors or mean free paths, and loaders for the
// delimiter-separated data files they are usually shipped in.
package table

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrOutOfDomain is matched by every DomainError
var ErrOutOfDomain = errors.New("outside of tabulated domain")

// DomainError reports a lookup outside of [Min, Max)
type DomainError struct {
	X        float64
	Min, Max float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("x=%g %v [%g, %g)", e.X, ErrOutOfDomain, e.Min, e.Max)
}

// Is makes errors.Is(err, ErrOutOfDomain) match
func (e *DomainError) Is(target error) bool {
	return target == ErrOutOfDomain
}

// Function is a tabulated function y(x) evaluated by linear interpolation.
// The x values are kept sorted and unique.
type Function struct {
	xdata []float64
	ydata []float64
}

// New creates an empty function
func New() *Function {
	return &Function{}
}

// FromPoints creates a function from (x, y) pairs given in ascending x order
func FromPoints(points [][2]float64) (*Function, error) {
	f := New()
	for _, point := range points {
		if err := f.Push(point[0], point[1]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Len returns the number of tabulated points
func (f *Function) Len() int {
	return len(f.xdata)
}

// XData returns the tabulated x values
func (f *Function) XData() []float64 {
	return f.xdata
}

// YData returns the tabulated y values
func (f *Function) YData() []float64 {
	return f.ydata
}

// Domain returns the half-open interval [min, max) on which Call succeeds.
// A function with fewer than two points has an empty domain.
func (f *Function) Domain() (min, max float64) {
	if len(f.xdata) == 0 {
		return 0, 0
	}
	return f.xdata[0], f.xdata[len(f.xdata)-1]
}

// Contains reports whether x lies inside the domain
func (f *Function) Contains(x float64) bool {
	min, max := f.Domain()
	return min <= x && x < max
}

// MaxY returns the largest tabulated y value
func (f *Function) MaxY() float64 {
	result := math.Inf(-1)
	for _, y := range f.ydata {
		result = math.Max(result, y)
	}
	return result
}

// Call evaluates the function at x by linear interpolation.
// No extrapolation is done; x outside of Domain returns a *DomainError.
func (f *Function) Call(x float64) (float64, error) {
	end := f.firstGreaterThan(x)
	if end == 0 || end == len(f.xdata) {
		min, max := f.Domain()
		return 0, &DomainError{X: x, Min: min, Max: max}
	}

	x0, x1 := f.xdata[end-1], f.xdata[end]
	y0, y1 := f.ydata[end-1], f.ydata[end]
	slope := (y1 - y0) / (x1 - x0)
	return (x-x0)*slope + y0, nil
}

// MustCall is like Call but panics with a *DomainError when x is out of range
func (f *Function) MustCall(x float64) float64 {
	y, err := f.Call(x)
	if err != nil {
		panic(err)
	}
	return y
}

// Push appends a point. x must not be smaller than the last x.
func (f *Function) Push(x, y float64) error {
	if err := checkFinite(x, y); err != nil {
		return err
	}
	if n := len(f.xdata); n > 0 {
		last := f.xdata[n-1]
		if x < last {
			return fmt.Errorf("push x=%g after x=%g: unsorted function", x, last)
		}
		if x == last {
			return fmt.Errorf("push x=%g: duplicate point", x)
		}
	}
	f.xdata = append(f.xdata, x)
	f.ydata = append(f.ydata, y)
	return nil
}

// Insert adds a point at its sorted position
func (f *Function) Insert(x, y float64) error {
	if err := checkFinite(x, y); err != nil {
		return err
	}
	i := f.firstGreaterThan(x)
	if i > 0 && f.xdata[i-1] == x {
		return fmt.Errorf("insert x=%g: duplicate point", x)
	}
	f.xdata = append(f.xdata, 0)
	copy(f.xdata[i+1:], f.xdata[i:])
	f.xdata[i] = x
	f.ydata = append(f.ydata, 0)
	copy(f.ydata[i+1:], f.ydata[i:])
	f.ydata[i] = y
	return nil
}

func (f *Function) firstGreaterThan(x float64) int {
	return sort.Search(len(f.xdata), func(i int) bool { return f.xdata[i] > x })
}

func checkFinite(x, y float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("point (%g, %g): non-finite value", x, y)
	}
	return nil
}
