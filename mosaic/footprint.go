package mosaic

import (
	"math"
	"os"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/venicegeo/modis-lst-mosaic/model"
)

// Sinusoidal grid constants: sphere radius and tile edge length in meters
const (
	sinusoidalRadius = 6371007.181
	tileSizeMeters   = 2 * math.Pi * sinusoidalRadius / 36
)

// writeFootprint drops a GeoJSON sidecar next to the mosaic describing which
// tiles contributed and their approximate WGS84 footprints
func writeFootprint(spec Spec, path string) error {
	features := make([]*geojson.Feature, len(spec.Tiles))
	for i, tile := range spec.Tiles {
		feature := geojson.NewFeature(tileFootprint(tile), tile.String(), map[string]interface{}{
			"tileH":     tile.H,
			"tileV":     tile.V,
			"composite": model.CompositeName(spec.Product, spec.Year, spec.Month, tile),
			"product":   spec.Product.ID,
			"dayNight":  string(spec.DayNight),
		})
		feature.Bbox = feature.ForceBbox()
		features[i] = feature
	}

	collection := geojson.NewFeatureCollection(features)
	return os.WriteFile(path, []byte(collection.String()), 0644)
}

// tileFootprint converts a tile's sinusoidal bounds to a lon/lat polygon.
// The inverse sinusoidal projection is exact per point; edges are kept as
// straight segments, which is close enough for an index sidecar.
func tileFootprint(tile model.TileID) *geojson.Polygon {
	xMin := (float64(tile.H) - 18) * tileSizeMeters
	xMax := xMin + tileSizeMeters
	yMax := (9 - float64(tile.V)) * tileSizeMeters
	yMin := yMax - tileSizeMeters

	ring := [][]float64{
		sinusoidalToLonLat(xMin, yMax),
		sinusoidalToLonLat(xMax, yMax),
		sinusoidalToLonLat(xMax, yMin),
		sinusoidalToLonLat(xMin, yMin),
		sinusoidalToLonLat(xMin, yMax),
	}
	return geojson.NewPolygon([][][]float64{ring})
}

func sinusoidalToLonLat(x, y float64) []float64 {
	lat := y / sinusoidalRadius
	lon := 0.0
	if math.Abs(math.Cos(lat)) > 1e-9 {
		lon = x / (sinusoidalRadius * math.Cos(lat))
	}
	lonDeg := clamp(lon*180/math.Pi, -180, 180)
	latDeg := clamp(lat*180/math.Pi, -90, 90)
	return []float64{lonDeg, latDeg}
}

func clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}
