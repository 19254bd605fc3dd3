package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/airbusgeo/godal"
)

// GDALBackend is the production Backend, encoding artifacts with GDAL
// through the godal bindings. The artifact contract is fixed for downstream
// GIS tooling: single-band uint16 GeoTIFF, LZW-compressed, tiled, explicit
// no-data value, embedded geotransform and projection.
type GDALBackend struct{}

var registerDriversOnce sync.Once

// NewGDALBackend returns a Backend that encodes with GDAL
func NewGDALBackend() *GDALBackend {
	registerDriversOnce.Do(godal.RegisterAll)
	return &GDALBackend{}
}

// Write persists the layer as a GeoTIFF. The dataset handle is closed before
// returning so readers never observe a partially flushed file.
func (b *GDALBackend) Write(path string, layer *Layer, noData uint16) error {
	ds, err := godal.Create(godal.GTiff, path, 1, godal.UInt16,
		layer.Grid.Width, layer.Grid.Height,
		godal.CreationOption("COMPRESS=LZW", "TILED=YES"))
	if err != nil {
		return err
	}

	err = b.fill(ds, layer, noData)
	closeErr := ds.Close()
	if err != nil {
		return err
	}
	return closeErr
}

func (b *GDALBackend) fill(ds *godal.Dataset, layer *Layer, noData uint16) error {
	if err := ds.SetGeoTransform(layer.Transform); err != nil {
		return err
	}
	if layer.Projection != "" {
		sr, err := godal.NewSpatialRefFromWKT(layer.Projection)
		if err != nil {
			return fmt.Errorf("bad projection: %w", err)
		}
		defer sr.Close()
		if err := ds.SetSpatialRef(sr); err != nil {
			return err
		}
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(float64(noData)); err != nil {
		return err
	}
	buffer := make([]uint16, len(layer.Grid.Data))
	for i, value := range layer.Grid.Data {
		buffer[i] = uint16(value)
	}
	return band.Write(0, 0, buffer, layer.Grid.Width, layer.Grid.Height)
}

// Read loads an artifact back into a layer
func (b *GDALBackend) Read(path string) (*Layer, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	return b.readDataset(ds)
}

func (b *GDALBackend) readDataset(ds *godal.Dataset) (*Layer, error) {
	structure := ds.Structure()
	grid := NewGrid(structure.SizeX, structure.SizeY)
	if err := ds.Bands()[0].Read(0, 0, grid.Data, structure.SizeX, structure.SizeY); err != nil {
		return nil, err
	}

	transform, err := ds.GeoTransform()
	if err != nil {
		return nil, err
	}
	projection := ""
	if sr := ds.SpatialRef(); sr != nil {
		projection, _ = sr.WKT()
	}
	return &Layer{Grid: grid, Transform: transform, Projection: projection}, nil
}

// Merge builds a virtual mosaic over the input rasters and materializes it.
// The transient VRT lives in its own temp directory, removed on all paths.
func (b *GDALBackend) Merge(paths []string) (*Layer, error) {
	vrtDir, err := os.MkdirTemp("", "mosaic-vrt")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(vrtDir)

	vrt, err := godal.BuildVRT(filepath.Join(vrtDir, "mosaic.vrt"), paths, nil)
	if err != nil {
		return nil, err
	}
	defer vrt.Close()
	return b.readDataset(vrt)
}
