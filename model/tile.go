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

package model

import (
	"fmt"
	"regexp"
)

// The sinusoidal grid is 36 tiles across and 18 down
const (
	MaxTileH = 35
	MaxTileV = 17
)

// TileID identifies one cell of the global sinusoidal grid
type TileID struct {
	H int
	V int
}

// String renders the archive tile name, e.g. "h08v05"
func (t TileID) String() string {
	return fmt.Sprintf("h%02dv%02d", t.H, t.V)
}

// Valid reports whether the indices fall inside the sinusoidal grid
func (t TileID) Valid() bool {
	return t.H >= 0 && t.H <= MaxTileH && t.V >= 0 && t.V <= MaxTileV
}

var tileNamePattern = regexp.MustCompile(`h(\d{2})v(\d{2})`)

// granuleNamePattern matches archive granule file names such as
// MOD11A2.A2005001.h08v05.006.2015041123456.hdf
var granuleNamePattern = regexp.MustCompile(`^(M[OY]D11A2)\.A(\d{4})(\d{3})\.h(\d{2})v(\d{2})\.(\d{3})\.\d+\.hdf$`)

// ParseTileID extracts the tile indices embedded in a granule or tile name.
// It validates the hHHvVV pattern and the grid bounds rather than slicing the
// string at fixed offsets, so a malformed catalog row fails loudly.
func ParseTileID(name string) (TileID, error) {
	match := tileNamePattern.FindStringSubmatch(name)
	if match == nil {
		return TileID{}, fmt.Errorf("no hHHvVV tile name found in %q", name)
	}
	var tile TileID
	fmt.Sscanf(match[1], "%d", &tile.H)
	fmt.Sscanf(match[2], "%d", &tile.V)
	if !tile.Valid() {
		return TileID{}, fmt.Errorf("tile %v out of grid bounds in %q", tile, name)
	}
	return tile, nil
}

// IsGranuleName reports whether a file name looks like an LST granule
// (and not, say, the .xml sidecar the archive stores next to it)
func IsGranuleName(name string) bool {
	return granuleNamePattern.MatchString(name)
}

// CompositeName is the file name of a monthly per-tile composite:
// product.Ayyyymm.hHHvVV.tif
func CompositeName(product Product, year, month int, tile TileID) string {
	return fmt.Sprintf("%v.A%04d%02d.%v.tif", product.ID, year, month, tile)
}

// MosaicName is the base name of a monthly mosaic (no extension):
// product.Ayyyymm.dayOrNight
func MosaicName(product Product, year, month int, dayNight DayNight) string {
	return fmt.Sprintf("%v.A%04d%02d.%v", product.ID, year, month, dayNight)
}
