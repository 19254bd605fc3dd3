package modis

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/raster"
)

// GDALDecoder extracts granule sub-layers through the godal bindings.
// Granules store their layers as named HDF sub-datasets; the product schema
// (model.SubdatasetPair) says which indices hold the value and quality
// layers for a given day/night selector.
type GDALDecoder struct{}

var registerDecoderOnce sync.Once

// NewGDALDecoder returns a Decoder backed by GDAL
func NewGDALDecoder() *GDALDecoder {
	registerDecoderOnce.Do(godal.RegisterAll)
	return &GDALDecoder{}
}

// DecodeLayers reads the value and quality sub-layers of a granule. Both
// must share shape and georeferencing; a mismatch means a malformed granule.
func (d *GDALDecoder) DecodeLayers(granulePath string, pair model.SubdatasetPair) (*raster.Layer, *raster.Layer, error) {
	names, err := subdatasetNames(granulePath)
	if err != nil {
		return nil, nil, &DecodeError{Path: granulePath, Err: err}
	}
	if pair.Value >= len(names) || pair.Quality >= len(names) {
		return nil, nil, &DecodeError{Path: granulePath,
			Err: fmt.Errorf("granule has %v sub-datasets, need indices %v and %v", len(names), pair.Value, pair.Quality)}
	}

	value, err := readSubdataset(names[pair.Value])
	if err != nil {
		return nil, nil, &DecodeError{Path: granulePath, Err: err}
	}
	quality, err := readSubdataset(names[pair.Quality])
	if err != nil {
		return nil, nil, &DecodeError{Path: granulePath, Err: err}
	}

	if !value.Grid.SameShape(quality.Grid) || value.Transform != quality.Transform {
		return nil, nil, &DecodeError{Path: granulePath,
			Err: fmt.Errorf("value and quality sub-layers disagree on shape or georeferencing")}
	}
	return value, quality, nil
}

// subdatasetNames lists the granule's sub-dataset identifiers in schema order
func subdatasetNames(granulePath string) ([]string, error) {
	ds, err := godal.Open(granulePath)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	names := []string{}
	for i := 1; ; i++ {
		name := ds.Metadata(fmt.Sprintf("SUBDATASET_%d_NAME", i), godal.Domain("SUBDATASETS"))
		if name == "" {
			break
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no sub-datasets found")
	}
	return names, nil
}

func readSubdataset(name string) (*raster.Layer, error) {
	ds, err := godal.Open(name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	structure := ds.Structure()
	grid := raster.NewGrid(structure.SizeX, structure.SizeY)
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
	return &raster.Layer{Grid: grid, Transform: transform, Projection: projection}, nil
}
