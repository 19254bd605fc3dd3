package raster

import (
	"errors"
	"math"
)

// Accumulator folds the quality-filtered layers of one month into a running
// per-pixel sum and observation count. The monthly composite is the
// elementwise mean, with pixels that never saw a valid observation set to 0.
//
// The accumulator sizes itself from the first layer added; every subsequent
// layer must share its shape and georeferencing (granules of the same tile
// always do).
type Accumulator struct {
	sum        *Grid
	count      *Grid
	transform  [6]float64
	projection string
	granules   int
}

// ErrNoGranules is returned when a composite is requested before any layer
// was accumulated
var ErrNoGranules = errors.New("no granules accumulated for composite")

// NewAccumulator returns an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add folds one granule's filtered values and validity mask into the running
// totals
func (a *Accumulator) Add(filtered *Layer, validity *Mask) error {
	if a.sum == nil {
		a.sum = NewGrid(filtered.Grid.Width, filtered.Grid.Height)
		a.count = NewGrid(filtered.Grid.Width, filtered.Grid.Height)
		a.transform = filtered.Transform
		a.projection = filtered.Projection
	}
	if !filtered.Grid.SameShape(a.sum) {
		return shapeError("composite accumulator", filtered.Grid, a.sum)
	}

	for i, value := range filtered.Grid.Data {
		a.sum.Data[i] += value
		if validity.Data[i] {
			a.count.Data[i]++
		}
	}
	a.granules++
	return nil
}

// Granules returns how many granules have been folded in
func (a *Accumulator) Granules() int {
	return a.granules
}

// Composite computes the monthly mean layer, already downcast to the
// unsigned 16-bit range. Pixels with zero valid observations become 0
// rather than no-data.
func (a *Accumulator) Composite() (*Layer, error) {
	if a.granules == 0 {
		return nil, ErrNoGranules
	}

	mean := NewGrid(a.sum.Width, a.sum.Height)
	for i := range a.sum.Data {
		if a.count.Data[i] == 0 {
			continue
		}
		mean.Data[i] = downcastUint16(a.sum.Data[i] / a.count.Data[i])
	}
	return &Layer{Grid: mean, Transform: a.transform, Projection: a.projection}, nil
}

// downcastUint16 truncates toward zero and clamps to the uint16 range,
// matching an unsigned 16-bit integer cast
func downcastUint16(value float64) float64 {
	if value <= 0 || math.IsNaN(value) {
		return 0
	}
	if value >= math.MaxUint16 {
		return math.MaxUint16
	}
	return math.Trunc(value)
}
