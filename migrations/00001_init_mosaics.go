package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00001, Down00001)
}

// Up00001 creates the mosaics ledger table
func Up00001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE mosaics
		(
			product       TEXT    NOT NULL,
			year          INTEGER NOT NULL,
			month         INTEGER NOT NULL,
			day_night     TEXT    NOT NULL,
			artifact_path TEXT    NOT NULL,
			completed_at  TEXT    NOT NULL,
			PRIMARY KEY (product, year, month, day_night)
		);
		`)
	return err
}

// Down00001 undoes the db changes.
func Down00001(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS mosaics;`)
	return err
}
