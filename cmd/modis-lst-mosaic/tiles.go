package main

import (
	"context"
	"fmt"
	"log"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/modis-lst-mosaic/catalog"
	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

func resolveGridTiles(ctx context.Context, logContext util.LogContext) ([]model.TileID, error) {
	return catalog.NewResolver(util.GetTileListURL(), logContext).Resolve(ctx)
}

//tilesAction prints the land tile grid, one tile id per line.
func tilesAction(*cli.Context) {
	tiles, err := resolveGridTiles(context.Background(), &util.BasicLogContext{})
	if err != nil {
		log.Fatal(err)
	}
	for _, tile := range tiles {
		fmt.Println(tile)
	}
}
