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

// Package catalog resolves the set of tiles covering the product grid from
// the archive's reference listing. Tile membership feeds every downstream
// mosaic, so a malformed listing fails the whole run rather than silently
// shrinking the grid.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

// ParseError marks a reference listing row that does not look like a
// granule name. Fatal to the run.
type ParseError struct {
	Row int
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tile catalog row %v: %v", e.Row, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Resolver resolves tile identifiers from a reference CSV listing: one
// header row, then one row per granule with the granule file name in the
// first column.
type Resolver struct {
	ListURL    string
	Client     *http.Client
	LogContext util.LogContext
}

// NewResolver initializes a resolver against the configured listing URL
func NewResolver(listURL string, ctx util.LogContext) *Resolver {
	return &Resolver{
		ListURL:    listURL,
		Client:     util.HTTPClient(),
		LogContext: ctx,
	}
}

// Resolve fetches the reference listing and returns the deduplicated tile
// set in deterministic (V, then H) order
func (r *Resolver) Resolve(ctx context.Context) ([]model.TileID, error) {
	request, err := http.NewRequestWithContext(ctx, "GET", r.ListURL, nil)
	if err != nil {
		return nil, err
	}
	response, err := r.Client.Do(request)
	if err != nil {
		return nil, util.LogSimpleErr(r.LogContext, "Failed to fetch tile reference listing", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		message := fmt.Sprintf("Tile reference listing request failed: %v. ", response.Status)
		util.LogAlert(r.LogContext, message)
		return nil, util.HTTPErr{Status: response.StatusCode, Message: message}
	}

	return parseTileListing(response.Body)
}

func parseTileListing(listing io.Reader) ([]model.TileID, error) {
	reader := csv.NewReader(listing)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	//Discard the line with the column names.
	if _, err := reader.Read(); err != nil {
		return nil, &ParseError{Row: 0, Err: err}
	}

	tiles := []model.TileID{}
	seen := map[model.TileID]bool{}
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Row: row, Err: err}
		}
		if len(record) == 0 {
			continue
		}

		tile, err := model.ParseTileID(record[0])
		if err != nil {
			return nil, &ParseError{Row: row, Err: err}
		}
		if !seen[tile] {
			seen[tile] = true
			tiles = append(tiles, tile)
		}
	}

	if len(tiles) == 0 {
		return nil, &ParseError{Row: 1, Err: fmt.Errorf("listing contained no tiles")}
	}
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].V != tiles[j].V {
			return tiles[i].V < tiles[j].V
		}
		return tiles[i].H < tiles[j].H
	})
	return tiles, nil
}
