package raster

import (
	"fmt"
	"math"
)

// Backend performs the actual raster file format encoding and decoding. The
// pipeline core goes through this interface so that tests can run without a
// GDAL installation; GDALBackend is the production implementation.
type Backend interface {
	// Write persists a layer as a single-band uint16 GeoTIFF with the given
	// no-data value, fully flushing and closing the file before returning.
	Write(path string, layer *Layer, noData uint16) error
	// Read loads a previously written artifact back into a layer.
	Read(path string) (*Layer, error)
	// Merge spatially mosaics the rasters at the given paths into one layer
	// whose extent is the union of the inputs.
	Merge(paths []string) (*Layer, error)
}

// WriteError marks a failure to persist a raster artifact. It is fatal to
// the enclosing composite or mosaic.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("raster write %v: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer persists grids as raster artifacts through a Backend, taking care
// of no-data substitution and the uint16 downcast
type Writer struct {
	Backend Backend
}

// Write replaces every occurrence of srcNoData (every NaN, if srcNoData is
// NaN) with dstNoData, downcasts to the uint16 range and persists the layer.
// The input layer is not modified.
func (w *Writer) Write(layer *Layer, path string, srcNoData float64, dstNoData uint16) error {
	out := layer.Clone()
	for i, value := range out.Grid.Data {
		if isNoData(value, srcNoData) {
			out.Grid.Data[i] = float64(dstNoData)
		} else {
			out.Grid.Data[i] = downcastUint16(value)
		}
	}

	if err := w.Backend.Write(path, out, dstNoData); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func isNoData(value, srcNoData float64) bool {
	if math.IsNaN(srcNoData) {
		return math.IsNaN(value)
	}
	return value == srcNoData
}
