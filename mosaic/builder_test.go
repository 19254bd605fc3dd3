package mosaic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venicegeo/modis-lst-mosaic/composite"
	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/raster"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

const pixelSize = 926.6

// fakeComposer writes a canned 2x2 layer per tile into the shared backend,
// standing in for the whole fetch/filter/average path
type fakeComposer struct {
	backend  *raster.MemoryBackend
	layers   map[model.TileID]*raster.Layer
	failTile *model.TileID

	mu          sync.Mutex
	scratchDirs []string
}

func (f *fakeComposer) Compose(ctx context.Context, job composite.Job) (string, error) {
	f.mu.Lock()
	f.scratchDirs = append(f.scratchDirs, job.ScratchDir)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.failTile != nil && *f.failTile == job.Tile {
		return "", errors.New("simulated tile failure")
	}

	path := filepath.Join(job.ScratchDir, model.CompositeName(job.Product, job.Year, job.Month, job.Tile))
	if err := f.backend.Write(path, f.layers[job.Tile], 0); err != nil {
		return "", err
	}
	return path, nil
}

// tileLayer builds a 2x2 layer at the tile's slot in a one-row layout so
// every tile occupies a disjoint extent
func tileLayer(slot int, values ...float64) *raster.Layer {
	grid := raster.NewGrid(2, 2)
	copy(grid.Data, values)
	return &raster.Layer{
		Grid:       grid,
		Transform:  [6]float64{float64(slot) * 2 * pixelSize, pixelSize, 0, 0, 0, -pixelSize},
		Projection: "SINUSOIDAL",
	}
}

var testTiles = []model.TileID{{H: 8, V: 5}, {H: 9, V: 5}, {H: 10, V: 5}}

func testSpec(t *testing.T, destDir string, concurrency int) Spec {
	product, err := model.LookupProduct("MOD11A2.006")
	assert.Nil(t, err)
	return Spec{
		Product:     product,
		Year:        2005,
		Month:       2,
		DayNight:    model.Day,
		Tiles:       testTiles,
		DestDir:     destDir,
		Concurrency: concurrency,
	}
}

func newFixture() (*fakeComposer, *Builder) {
	backend := raster.NewMemoryBackend()
	composer := &fakeComposer{
		backend: backend,
		layers: map[model.TileID]*raster.Layer{
			testTiles[0]: tileLayer(0, 1, 2, 3, 4),
			testTiles[1]: tileLayer(1, 5, 6, 7, 8),
			testTiles[2]: tileLayer(2, 9, 10, 11, 12),
		},
	}
	builder := &Builder{
		Composer:   composer,
		Backend:    backend,
		LogContext: &util.BasicLogContext{Name: "mosaic-test"},
	}
	return composer, builder
}

func TestBuild_DisjointTilesMergeToUnion(t *testing.T) {
	_, builder := newFixture()
	destDir := t.TempDir()

	path, err := builder.Build(context.Background(), testSpec(t, destDir, 1))
	assert.Nil(t, err)
	assert.Equal(t, filepath.Join(destDir, "MOD11A2.006.A200502.day.tif"), path)

	merged, err := builder.Backend.Read(path)
	assert.Nil(t, err)
	assert.Equal(t, 6, merged.Grid.Width)
	assert.Equal(t, 2, merged.Grid.Height)
	// Each tile's pixels land in its own slot, nothing bleeds across
	assert.Equal(t, []float64{
		1, 2, 5, 6, 9, 10,
		3, 4, 7, 8, 11, 12,
	}, merged.Grid.Data)
}

func TestBuild_ConcurrencyDoesNotChangeOutput(t *testing.T) {
	_, sequential := newFixture()
	seqPath, err := sequential.Build(context.Background(), testSpec(t, t.TempDir(), 1))
	assert.Nil(t, err)

	_, parallel := newFixture()
	parPath, err := parallel.Build(context.Background(), testSpec(t, t.TempDir(), 3))
	assert.Nil(t, err)

	seqMosaic, err := sequential.Backend.Read(seqPath)
	assert.Nil(t, err)
	parMosaic, err := parallel.Backend.Read(parPath)
	assert.Nil(t, err)
	assert.Equal(t, seqMosaic.Grid.Data, parMosaic.Grid.Data)
	assert.Equal(t, seqMosaic.Transform, parMosaic.Transform)
}

func TestBuild_WritesFootprintSidecar(t *testing.T) {
	_, builder := newFixture()
	destDir := t.TempDir()

	_, err := builder.Build(context.Background(), testSpec(t, destDir, 2))
	assert.Nil(t, err)

	sidecar, err := os.ReadFile(filepath.Join(destDir, "MOD11A2.006.A200502.day.geojson"))
	assert.Nil(t, err)
	assert.Contains(t, string(sidecar), "FeatureCollection")
	assert.Contains(t, string(sidecar), "h08v05")
}

func TestBuild_TileFailureAbortsMosaic(t *testing.T) {
	composer, builder := newFixture()
	composer.failTile = &testTiles[1]
	destDir := t.TempDir()

	_, err := builder.Build(context.Background(), testSpec(t, destDir, 3))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "h09v05")

	_, readErr := builder.Backend.Read(filepath.Join(destDir, "MOD11A2.006.A200502.day.tif"))
	assert.NotNil(t, readErr, "mosaic artifact written despite tile failure")
}

func TestBuild_ScratchRemovedOnSuccessAndFailure(t *testing.T) {
	composer, builder := newFixture()
	_, err := builder.Build(context.Background(), testSpec(t, t.TempDir(), 1))
	assert.Nil(t, err)

	failing, failingBuilder := newFixture()
	failing.failTile = &testTiles[0]
	_, err = failingBuilder.Build(context.Background(), testSpec(t, t.TempDir(), 1))
	assert.NotNil(t, err)

	for _, scratch := range append(composer.scratchDirs, failing.scratchDirs...) {
		_, statErr := os.Stat(scratch)
		assert.True(t, os.IsNotExist(statErr), "scratch dir %v not removed", scratch)
	}
}

func TestBuild_NoTiles(t *testing.T) {
	_, builder := newFixture()
	spec := testSpec(t, t.TempDir(), 1)
	spec.Tiles = nil
	_, err := builder.Build(context.Background(), spec)
	assert.NotNil(t, err)
}

func TestBuild_HonorsCancellation(t *testing.T) {
	_, builder := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := builder.Build(ctx, testSpec(t, t.TempDir(), 2))
	assert.NotNil(t, err)
}
