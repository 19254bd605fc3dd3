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

// Package mosaic orchestrates tile composites across the grid and merges
// them into one monthly raster.
package mosaic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/venicegeo/modis-lst-mosaic/composite"
	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/raster"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

// TileComposer builds one monthly tile composite. Satisfied by
// composite.Composer.
type TileComposer interface {
	Compose(ctx context.Context, job composite.Job) (string, error)
}

// Spec names one mosaic: a parameter combination, the tiles to cover, where
// the artifact goes and how many tile workers may run at once
type Spec struct {
	Product     model.Product
	Year        int
	Month       int
	DayNight    model.DayNight
	Tiles       []model.TileID
	DestDir     string
	Concurrency int
}

// Builder builds monthly mosaics
type Builder struct {
	Composer   TileComposer
	Backend    raster.Backend
	LogContext util.LogContext
}

// Build composites every tile of the spec into a shared scratch directory,
// merges the composites into one raster, writes it as
// product.Ayyyymm.dayOrNight.tif under the destination directory and drops a
// GeoJSON footprint sidecar next to it.
//
// Tiles run on a bounded worker pool; workers share nothing mutable beyond
// the spec, which caps memory at one tile per worker. Any tile failure
// aborts the whole mosaic — a silently absent tile would put a hole where
// downstream users expect data. The scratch directory is removed on success,
// failure and cancellation alike.
func (b *Builder) Build(ctx context.Context, spec Spec) (string, error) {
	if len(spec.Tiles) == 0 {
		return "", errors.New("mosaic spec names no tiles")
	}

	name := model.MosaicName(spec.Product, spec.Year, spec.Month, spec.DayNight)
	scratchDir, err := os.MkdirTemp("", name)
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(scratchDir)

	// The merge inputs are built from the tile set up front, never from a
	// directory listing: a composite that went missing must fail loudly.
	expected := make([]string, len(spec.Tiles))
	for i, tile := range spec.Tiles {
		expected[i] = filepath.Join(scratchDir, model.CompositeName(spec.Product, spec.Year, spec.Month, tile))
	}

	if err := b.composeAll(ctx, spec, scratchDir, expected); err != nil {
		return "", err
	}

	merged, err := b.Backend.Merge(expected)
	if err != nil {
		return "", fmt.Errorf("merging %v tile composites for %v: %w", len(expected), name, err)
	}

	if err := os.MkdirAll(spec.DestDir, 0755); err != nil {
		return "", err
	}
	destPath := filepath.Join(spec.DestDir, name+".tif")
	writer := &raster.Writer{Backend: b.Backend}
	if err := writer.Write(merged, destPath, 0, 0); err != nil {
		return "", err
	}

	if err := writeFootprint(spec, filepath.Join(spec.DestDir, name+".geojson")); err != nil {
		// The sidecar is metadata; its failure should not discard a mosaic
		// that is already safely on disk
		util.LogAlert(b.LogContext, fmt.Sprintf("Failed to write footprint sidecar for %v: %v", name, err))
	}

	util.LogInfo(b.LogContext, fmt.Sprintf("Mosaic complete: %v (%v tiles)", destPath, len(spec.Tiles)))
	return destPath, nil
}

// composeAll runs one composite job per tile on a pool of workers, stopping
// the pool at the first failure
func (b *Builder) composeAll(ctx context.Context, spec Spec, scratchDir string, expected []string) error {
	concurrency := spec.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(spec.Tiles) {
		concurrency = len(spec.Tiles)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make([]error, len(spec.Tiles))

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for worker := 0; worker < concurrency; worker++ {
		go func() {
			defer wg.Done()
			for index := range jobs {
				results[index] = b.composeOne(runCtx, spec, scratchDir, expected[index], spec.Tiles[index])
				if results[index] != nil {
					cancel()
				}
			}
		}()
	}
	for index := range spec.Tiles {
		jobs <- index
	}
	close(jobs)
	wg.Wait()

	// Report the first real failure, not the cancellations it caused
	var firstErr error
	for index, err := range results {
		if err == nil || errors.Is(err, context.Canceled) {
			continue
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("tile %v composite failed: %w", spec.Tiles[index], err)
		}
	}
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

func (b *Builder) composeOne(ctx context.Context, spec Spec, scratchDir, expectedPath string, tile model.TileID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := b.Composer.Compose(ctx, composite.Job{
		Product:    spec.Product,
		DayNight:   spec.DayNight,
		Tile:       tile,
		Year:       spec.Year,
		Month:      spec.Month,
		ScratchDir: scratchDir,
	})
	if err != nil {
		return err
	}
	if path != expectedPath {
		return fmt.Errorf("composite landed at %v, expected %v", path, expectedPath)
	}
	return nil
}
