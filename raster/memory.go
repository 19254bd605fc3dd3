package raster

import (
	"fmt"
	"math"
	"sync"
)

// MemoryBackend is an in-memory Backend for tests and dry runs: artifacts
// are held in a map instead of being encoded to disk. Merge implements the
// same union-extent semantics as the GDAL VRT path for axis-aligned rasters
// with a shared pixel size.
type MemoryBackend struct {
	mu       sync.RWMutex
	rasters  map[string]*Layer
	noData   map[string]uint16
	failPath string
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		rasters: make(map[string]*Layer),
		noData:  make(map[string]uint16),
	}
}

// FailWritesTo makes subsequent writes to the given path fail, for testing
// write-failure propagation
func (m *MemoryBackend) FailWritesTo(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPath = path
}

// Write stores a deep copy of the layer under the given path
func (m *MemoryBackend) Write(path string, layer *Layer, noData uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if path == m.failPath {
		return fmt.Errorf("simulated write failure: %v", path)
	}
	m.rasters[path] = layer.Clone()
	m.noData[path] = noData
	return nil
}

// Read returns a deep copy of the stored layer
func (m *MemoryBackend) Read(path string) (*Layer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	layer, ok := m.rasters[path]
	if !ok {
		return nil, fmt.Errorf("no raster stored at %v", path)
	}
	return layer.Clone(), nil
}

// NoData returns the no-data value recorded for a stored artifact
func (m *MemoryBackend) NoData(path string) (uint16, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	nd, ok := m.noData[path]
	return nd, ok
}

// Len returns how many artifacts are stored
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rasters)
}

// Merge mosaics the stored rasters into a single layer covering the union of
// their extents, with unfilled pixels left at 0
func (m *MemoryBackend) Merge(paths []string) (*Layer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(paths) == 0 {
		return nil, fmt.Errorf("nothing to merge")
	}

	layers := make([]*Layer, 0, len(paths))
	for _, path := range paths {
		layer, ok := m.rasters[path]
		if !ok {
			return nil, fmt.Errorf("no raster stored at %v", path)
		}
		layers = append(layers, layer)
	}

	pixelW := layers[0].Transform[1]
	pixelH := -layers[0].Transform[5]
	if pixelW <= 0 || pixelH <= 0 {
		return nil, fmt.Errorf("unsupported geotransform on %v", paths[0])
	}

	minX, maxY := layers[0].Transform[0], layers[0].Transform[3]
	maxX := minX + float64(layers[0].Grid.Width)*pixelW
	minY := maxY - float64(layers[0].Grid.Height)*pixelH
	for _, layer := range layers[1:] {
		if layer.Transform[1] != pixelW || -layer.Transform[5] != pixelH {
			return nil, fmt.Errorf("pixel size mismatch between merge inputs")
		}
		minX = math.Min(minX, layer.Transform[0])
		maxY = math.Max(maxY, layer.Transform[3])
		maxX = math.Max(maxX, layer.Transform[0]+float64(layer.Grid.Width)*pixelW)
		minY = math.Min(minY, layer.Transform[3]-float64(layer.Grid.Height)*pixelH)
	}

	width := int(math.Round((maxX - minX) / pixelW))
	height := int(math.Round((maxY - minY) / pixelH))
	merged := NewGrid(width, height)
	for _, layer := range layers {
		colOffset := int(math.Round((layer.Transform[0] - minX) / pixelW))
		rowOffset := int(math.Round((maxY - layer.Transform[3]) / pixelH))
		for row := 0; row < layer.Grid.Height; row++ {
			for col := 0; col < layer.Grid.Width; col++ {
				merged.Set(rowOffset+row, colOffset+col, layer.Grid.At(row, col))
			}
		}
	}

	return &Layer{
		Grid:       merged,
		Transform:  [6]float64{minX, pixelW, 0, maxY, 0, -pixelH},
		Projection: layers[0].Projection,
	}, nil
}
