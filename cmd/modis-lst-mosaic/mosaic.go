package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/mosaic"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

var mosaicFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "product",
		Value: "MOD11A2.006",
		Usage: "product to composite (MOD11A2.006 or MYD11A2.006)",
	},
	cli.IntFlag{
		Name:  "year",
		Usage: "year of the month to composite",
	},
	cli.IntFlag{
		Name:  "month",
		Usage: "month to composite (1-12)",
	},
	cli.StringFlag{
		Name:  "daynight",
		Value: "day",
		Usage: "which overpass to composite (day or night)",
	},
	cli.StringFlag{
		Name:  "tiles",
		Usage: "comma separated tile ids like h08v05,h09v05 (default: the full grid from the tile listing)",
	},
}

//mosaicAction builds one monthly mosaic from command line flags.
func mosaicAction(c *cli.Context) {
	logContext := &util.BasicLogContext{}
	ctx := context.Background()

	product, err := model.LookupProduct(c.String("product"))
	if err != nil {
		log.Fatal(err)
	}
	dayNight, err := model.ParseDayNight(c.String("daynight"))
	if err != nil {
		log.Fatal(err)
	}
	year, month := c.Int("year"), c.Int("month")
	if year == 0 || month < 1 || month > 12 {
		log.Fatal("A --year and a --month between 1 and 12 are required.")
	}

	tiles, err := parseTileFlag(ctx, c.String("tiles"), logContext)
	if err != nil {
		log.Fatal(err)
	}

	driver, err := newDriver(logContext)
	if err != nil {
		log.Fatal("Could not configure the mosaic pipeline: ", err)
	}

	path, err := driver.Builder.Build(ctx, mosaic.Spec{
		Product:     product,
		Year:        year,
		Month:       month,
		DayNight:    dayNight,
		Tiles:       tiles,
		DestDir:     util.GetDestinationDir(logContext),
		Concurrency: util.GetConcurrency(logContext),
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(path)
}

//parseTileFlag turns the --tiles flag into tile ids, falling back to the
//full grid from the tile listing when the flag is empty.
func parseTileFlag(ctx context.Context, raw string, logContext util.LogContext) ([]model.TileID, error) {
	if raw == "" {
		return resolveGridTiles(ctx, logContext)
	}

	tiles := []model.TileID{}
	for _, name := range strings.Split(raw, ",") {
		tile, err := model.ParseTileID(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, tile)
	}
	return tiles, nil
}
