package main

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/venicegeo/modis-lst-mosaic/util"
)

//getDbConnection opens a new connection to the ledger database.
func getDbConnection(ctx util.LogContext) (*sql.DB, error) {
	path := util.GetLedgerPath()

	util.LogInfo(ctx, fmt.Sprintf("Opening mosaic ledger at: `%s`", path))
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, err
}

var getDbConnectionFunc = getDbConnection
