// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package raster holds the pixel-level pieces of the pipeline: the in-memory
// grid types, the quality filter, the monthly composite accumulator and the
// writer that turns a grid into a GeoTIFF artifact.
package raster

import "fmt"

// Grid is a dense 2D array of pixel values, stored row-major
type Grid struct {
	Width  int
	Height int
	Data   []float64
}

// NewGrid allocates a zeroed grid
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
}

// At returns the value at (row, col)
func (g *Grid) At(row, col int) float64 {
	return g.Data[row*g.Width+col]
}

// Set stores a value at (row, col)
func (g *Grid) Set(row, col int, value float64) {
	g.Data[row*g.Width+col] = value
}

// SameShape reports whether two grids have identical dimensions
func (g *Grid) SameShape(other *Grid) bool {
	return g.Width == other.Width && g.Height == other.Height
}

// Mask is a boolean grid marking which pixels hold a usable observation
type Mask struct {
	Width  int
	Height int
	Data   []bool
}

// NewMask allocates an all-false mask
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Data:   make([]bool, width*height),
	}
}

// At returns the mask value at (row, col)
func (m *Mask) At(row, col int) bool {
	return m.Data[row*m.Width+col]
}

// Layer is a grid tagged with its georeferencing: a 6-element affine
// geotransform and a projection WKT. A granule's value layer and quality
// layer always share both.
type Layer struct {
	Grid       *Grid
	Transform  [6]float64
	Projection string
}

// Clone returns a deep copy of the layer
func (l *Layer) Clone() *Layer {
	data := make([]float64, len(l.Grid.Data))
	copy(data, l.Grid.Data)
	return &Layer{
		Grid:       &Grid{Width: l.Grid.Width, Height: l.Grid.Height, Data: data},
		Transform:  l.Transform,
		Projection: l.Projection,
	}
}

func shapeError(what string, a, b *Grid) error {
	return fmt.Errorf("%v: shape mismatch %vx%v vs %vx%v", what, a.Width, a.Height, b.Width, b.Height)
}
