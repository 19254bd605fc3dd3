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

import "fmt"

// DayNight selects which acquisition-time sub-layers of a granule to extract
type DayNight string

// Recognized DayNight values
const (
	Day   DayNight = "day"
	Night DayNight = "night"
)

// SubdatasetPair is a pair of granule sub-layer indices: the value layer and
// its matching quality-control layer
type SubdatasetPair struct {
	Value   int
	Quality int
}

// Product describes one LST product in the archive. Sub-layer indices are
// part of the product schema (HDF sub-dataset ordering), so they live here
// rather than in the composite code.
type Product struct {
	// ID is the full archive product identifier, e.g. "MOD11A2.006"
	ID string
	// ArchivePath is the platform directory on the archive host (MOLT for
	// Terra, MOLA for Aqua)
	ArchivePath string
	// StartYear/StartMonth is the first month with full-month coverage
	StartYear  int
	StartMonth int
	// Subdatasets maps a DayNight selector to its LST/QC sub-layer indices
	Subdatasets map[DayNight]SubdatasetPair
}

// Products lists the LST products this pipeline knows how to mosaic
var Products = []Product{
	{
		ID:          "MOD11A2.006",
		ArchivePath: "MOLT",
		StartYear:   2000,
		StartMonth:  3,
		Subdatasets: map[DayNight]SubdatasetPair{
			Day:   {Value: 0, Quality: 1},
			Night: {Value: 4, Quality: 5},
		},
	},
	{
		ID:          "MYD11A2.006",
		ArchivePath: "MOLA",
		StartYear:   2002,
		StartMonth:  7,
		Subdatasets: map[DayNight]SubdatasetPair{
			Day:   {Value: 0, Quality: 1},
			Night: {Value: 4, Quality: 5},
		},
	},
}

// LookupProduct finds a known product by its identifier
func LookupProduct(id string) (Product, error) {
	for _, product := range Products {
		if product.ID == id {
			return product, nil
		}
	}
	return Product{}, fmt.Errorf("unknown product: %v", id)
}

// ParseDayNight validates a day/night selector string
func ParseDayNight(raw string) (DayNight, error) {
	switch DayNight(raw) {
	case Day:
		return Day, nil
	case Night:
		return Night, nil
	}
	return "", fmt.Errorf("day/night selector must be %q or %q, got %q", Day, Night, raw)
}
