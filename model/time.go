package model

import (
	"fmt"
	"time"
)

// The archive does not use one single date representation: directory listings
// use dotted dates, granule names use year + day-of-year, and the CSV catalog
// uses dashed dates. Lenient multi-format parsing lives here.

// ArchiveDateLayout is the dotted format of per-day archive directories
const ArchiveDateLayout = "2006.01.02"

var archiveDateLayouts = []string{
	"2006.01.02",
	"2006-01-02",
	"2006/01/02",
}

// ParseArchiveDate is a drop-in replacement for time.Parse matching any of
// the date formats the archive is known to emit
func ParseArchiveDate(raw string) (time.Time, error) {
	for _, layout := range archiveDateLayouts {
		if output, err := time.Parse(layout, raw); err == nil {
			return output, nil
		}
	}
	return time.Time{}, fmt.Errorf("date could not be parsed by any expected archive format: `%s`", raw)
}

// ParseAcquisitionDay parses the AYYYYDDD acquisition token of a granule name
func ParseAcquisitionDay(token string) (time.Time, error) {
	var year, doy int
	if _, err := fmt.Sscanf(token, "A%4d%3d", &year, &doy); err != nil {
		return time.Time{}, fmt.Errorf("malformed acquisition token %q: %w", token, err)
	}
	if doy < 1 || doy > 366 {
		return time.Time{}, fmt.Errorf("acquisition day-of-year out of range in %q", token)
	}
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, doy-1), nil
}

// MonthRange returns the first and last day of a month, inclusive
func MonthRange(year, month int) (first, last time.Time) {
	first = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}
