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
	"time"
)

// ParameterCombination is one (product, year, month, day/night) tuple for
// which a mosaic can be built
type ParameterCombination struct {
	Product  Product
	Year     int
	Month    int
	DayNight DayNight
}

func (p ParameterCombination) String() string {
	return fmt.Sprintf("%v %04d-%02d %v", p.Product.ID, p.Year, p.Month, p.DayNight)
}

// EnumerateParameters generates every combination for which full-month data
// exists: the cross product of products, years since 2000, months and
// day/night, minus months before each product's start date and minus the
// still-running current month (and anything after it). Pure function of now;
// the order is deterministic: product, then year, then month, then day/night.
func EnumerateParameters(now time.Time) []ParameterCombination {
	combinations := []ParameterCombination{}
	for _, product := range Products {
		for year := 2000; year <= now.Year(); year++ {
			for month := 1; month <= 12; month++ {
				if year == now.Year() && month >= int(now.Month()) {
					continue
				}
				if year < product.StartYear ||
					(year == product.StartYear && month < product.StartMonth) {
					continue
				}
				for _, dayNight := range []DayNight{Day, Night} {
					combinations = append(combinations, ParameterCombination{
						Product:  product,
						Year:     year,
						Month:    month,
						DayNight: dayNight,
					})
				}
			}
		}
	}
	return combinations
}
