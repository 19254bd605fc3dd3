package main

import (
	"log"

	"github.com/pressly/goose"
	cli "gopkg.in/urfave/cli.v1"

	_ "github.com/venicegeo/modis-lst-mosaic/migrations"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

func migrateDatabaseAction(*cli.Context) {
	database, err := getDbConnectionFunc(&util.BasicLogContext{})
	if err != nil {
		log.Fatal("Could not open ledger database connection.")
	}
	defer database.Close()

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("Could not configure migrations: ", err)
	}
	goose.Run("up", database, ".")
}
