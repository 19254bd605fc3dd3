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

// Package modis talks to the LST archive: fetching raw granule files over
// HTTP and decoding their sub-layers into grids. The pipeline core depends
// only on the Fetcher and Decoder interfaces defined here.
package modis

import (
	"context"
	"fmt"
	"time"

	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/raster"
)

// Granule is one retrieved data file for one tile and acquisition day.
// Granules are ephemeral: created by a fetch, deleted with their scratch
// directory once their layers are extracted.
type Granule struct {
	Product model.Product
	Tile    model.TileID
	Date    time.Time
	Path    string
}

// Fetcher retrieves every granule for one tile across a date range into a
// local directory. Implementations must authenticate with the archive and
// retry transient failures internally; an error returned here is fatal for
// the tile.
type Fetcher interface {
	Fetch(ctx context.Context, product model.Product, tile model.TileID, first, last time.Time, destDir string) ([]Granule, error)
}

// Decoder extracts a granule's value and quality sub-layers, along with
// their shared georeferencing
type Decoder interface {
	DecodeLayers(granulePath string, pair model.SubdatasetPair) (value, quality *raster.Layer, err error)
}

// FetchError marks a failed granule retrieval: network, auth or a granule
// the archive should have but does not
type FetchError struct {
	Product string
	Tile    model.TileID
	URL     string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %v %v: %v", e.Product, e.Tile, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError marks a granule whose sub-layers could not be extracted
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %v: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
