// Package histogram counts how often values fall into equal-width bins
package histogram

import (
	"fmt"
	"io"
	"strings"
)

// Histogram has NumBins equal-width bins covering [low, high]. Values on an
// inner edge go to the lower bin.
type Histogram struct {
	low, high float64
	edges     []float64
	contents  []uint32
}

// New creates a histogram with nbins bins spanning low to high
func New(nbins int, low, high float64) (*Histogram, error) {
	if nbins <= 0 {
		return nil, fmt.Errorf("histogram: need at least one bin, got %d", nbins)
	}
	if !(low < high) {
		return nil, fmt.Errorf("histogram: empty range [%g, %g]", low, high)
	}

	width := (high - low) / float64(nbins)
	edges := make([]float64, nbins+1)
	for i := range edges {
		edges[i] = low + width*float64(i)
	}
	return &Histogram{
		low:      low,
		high:     high,
		edges:    edges,
		contents: make([]uint32, nbins),
	}, nil
}

// Range returns the lower and upper limit
func (h *Histogram) Range() (low, high float64) {
	return h.low, h.high
}

// NumBins returns the number of bins
func (h *Histogram) NumBins() int {
	return len(h.contents)
}

// NumBinEdges returns the number of bin edges, NumBins()+1
func (h *Histogram) NumBinEdges() int {
	return len(h.edges)
}

// BinWidth returns the common width of all bins
func (h *Histogram) BinWidth() float64 {
	return (h.high - h.low) / float64(h.NumBins())
}

// LowEdges returns the lower edge of every bin. The slice must not be modified.
func (h *Histogram) LowEdges() []float64 {
	return h.edges[:h.NumBins()]
}

// HighEdges returns the upper edge of every bin. The slice must not be modified.
func (h *Histogram) HighEdges() []float64 {
	return h.edges[1:]
}

// Centers returns the midpoint of every bin
func (h *Histogram) Centers() []float64 {
	half := h.BinWidth() / 2
	centers := make([]float64, h.NumBins())
	for i, low := range h.LowEdges() {
		centers[i] = low + half
	}
	return centers
}

// Contents returns the count of every bin. The slice must not be modified.
func (h *Histogram) Contents() []uint32 {
	return h.contents
}

// Total returns the sum of all bin contents
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, c := range h.contents {
		total += uint64(c)
	}
	return total
}

// Fill increments the bin holding x; values out of range are ignored
func (h *Histogram) Fill(x float64) {
	h.FillBy(x, 1)
}

// FillBy adds weight to the bin holding x; values out of range are ignored
func (h *Histogram) FillBy(x float64, weight uint32) {
	if i, ok := h.FindBin(x); ok {
		h.contents[i] += weight
	}
}

// FindBin returns the index of the bin holding x, or false if x lies outside
// [low, high]
func (h *Histogram) FindBin(x float64) (int, bool) {
	if !(h.low <= x && x <= h.high) {
		return 0, false
	}
	for i := 0; i < h.NumBins(); i++ {
		if h.edges[i] <= x && x <= h.edges[i+1] {
			return i, true
		}
	}
	// x == high but the last edge rounded below it
	return h.NumBins() - 1, true
}

// Normalized returns the contents divided by the total count and bin width,
// a density estimate that integrates to one. All zero if the histogram is
// empty.
func (h *Histogram) Normalized() []float64 {
	density := make([]float64, h.NumBins())
	total := h.Total()
	if total == 0 {
		return density
	}
	scale := 1 / (float64(total) * h.BinWidth())
	for i, c := range h.contents {
		density[i] = float64(c) * scale
	}
	return density
}

// WriteTable writes one "low<TAB>high<TAB>count" line per bin
func (h *Histogram) WriteTable(w io.Writer) error {
	var b strings.Builder
	high := h.HighEdges()
	for i, low := range h.LowEdges() {
		fmt.Fprintf(&b, "%g\t%g\t%d\n", low, high[i], h.contents[i])
	}
	_, err := io.WriteString(w, b.String())
	return err
}
