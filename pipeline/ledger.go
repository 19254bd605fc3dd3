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

// Package pipeline runs the batch loop: enumerate every buildable parameter
// combination, skip the ones already on record, build the rest.
package pipeline

import (
	"database/sql"
	"time"

	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

// ConnectionProvider is a function that can provide a database connection.
type ConnectionProvider func(util.LogContext) (*sql.DB, error)

// Ledger records which mosaics have been built, so an interrupted batch run
// resumes where it stopped instead of re-downloading years of granules
type Ledger struct {
	db *sql.DB
}

// NewLedger wraps an open database connection. The schema is managed by the
// migrations package; the caller runs migrations before building a ledger.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// IsDone reports whether a mosaic for this combination is already on record
func (l *Ledger) IsDone(combination model.ParameterCombination) (bool, error) {
	var count int
	err := l.db.QueryRow(`
		SELECT COUNT(1) FROM mosaics
		WHERE product=? AND year=? AND month=? AND day_night=?`,
		combination.Product.ID, combination.Year, combination.Month, string(combination.DayNight),
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkDone records a finished mosaic and where its artifact landed. Marking
// the same combination twice replaces the earlier record.
func (l *Ledger) MarkDone(combination model.ParameterCombination, artifactPath string) error {
	_, err := l.db.Exec(`
		INSERT OR REPLACE INTO mosaics (product, year, month, day_night, artifact_path, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		combination.Product.ID, combination.Year, combination.Month, string(combination.DayNight),
		artifactPath, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ArtifactPath returns the recorded artifact path for a combination, or
// sql.ErrNoRows if no mosaic is on record
func (l *Ledger) ArtifactPath(combination model.ParameterCombination) (string, error) {
	var path string
	err := l.db.QueryRow(`
		SELECT artifact_path FROM mosaics
		WHERE product=? AND year=? AND month=? AND day_night=?
		LIMIT 1`,
		combination.Product.ID, combination.Year, combination.Month, string(combination.DayNight),
	).Scan(&path)
	return path, err
}
