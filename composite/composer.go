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

// Package composite builds monthly per-tile composites: fetch every granule
// of the month, keep only high-quality pixels, average, write one GeoTIFF.
package composite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/modis"
	"github.com/venicegeo/modis-lst-mosaic/raster"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

// Job names one tile composite: product, selector, tile, month, and the
// scratch directory the artifact lands in
type Job struct {
	Product    model.Product
	DayNight   model.DayNight
	Tile       model.TileID
	Year       int
	Month      int
	ScratchDir string
}

// Composer builds monthly tile composites through its collaborators
type Composer struct {
	Fetcher    modis.Fetcher
	Decoder    modis.Decoder
	Writer     *raster.Writer
	LogContext util.LogContext
}

// Compose fetches the month's granules for one tile, quality-filters and
// averages them, and writes the composite into the job's scratch directory,
// returning the artifact path.
//
// Granule files live in a throwaway directory that is removed on every exit
// path; a long batch run must not accumulate raw granules on disk. A fetch
// or decode failure aborts the whole tile: the caller needs to know a tile
// is missing, not discover a hole in the mosaic later.
func (c *Composer) Compose(ctx context.Context, job Job) (string, error) {
	pair, ok := job.Product.Subdatasets[job.DayNight]
	if !ok {
		return "", fmt.Errorf("product %v has no %v sub-layers", job.Product.ID, job.DayNight)
	}

	granuleDir, err := os.MkdirTemp("", "granules-"+job.Tile.String())
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(granuleDir)

	first, last := model.MonthRange(job.Year, job.Month)
	granules, err := c.Fetcher.Fetch(ctx, job.Product, job.Tile, first, last, granuleDir)
	if err != nil {
		return "", err
	}

	accumulator := raster.NewAccumulator()
	for _, granule := range granules {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		value, quality, err := c.Decoder.DecodeLayers(granule.Path, pair)
		if err != nil {
			return "", err
		}
		filtered, validity, err := raster.FilterQuality(value.Grid, quality.Grid)
		if err != nil {
			return "", &modis.DecodeError{Path: granule.Path, Err: err}
		}
		layer := &raster.Layer{Grid: filtered, Transform: value.Transform, Projection: value.Projection}
		if err := accumulator.Add(layer, validity); err != nil {
			return "", &modis.DecodeError{Path: granule.Path, Err: err}
		}
	}

	monthly, err := accumulator.Composite()
	if err != nil {
		// Zero granules for a month the enumerator says exists: treat as a
		// missing-granule fetch failure, not an empty success
		return "", &modis.FetchError{Product: job.Product.ID, Tile: job.Tile, Err: err}
	}

	path := filepath.Join(job.ScratchDir, model.CompositeName(job.Product, job.Year, job.Month, job.Tile))
	if err := c.Writer.Write(monthly, path, 0, 0); err != nil {
		return "", err
	}

	util.LogInfo(c.LogContext, fmt.Sprintf("Composited %v granules into %v", accumulator.Granules(), path))
	return path, nil
}
