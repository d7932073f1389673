// Package calendar enumerates the days of a month and names the files
// generated for them.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Year bounds accepted by Validate.
const (
	MinYear = 2000
	MaxYear = 2100
)

// DefaultFilePrefix prefixes every generated report file name.
const DefaultFilePrefix = "Rapport_d_activite"

// ErrInvalidInput is returned for a month or year outside the accepted range.
var ErrInvalidInput = errors.New("calendar: invalid month or year")

// Validate checks that month is in 1..12 and year in MinYear..MaxYear.
func Validate(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d must be between 1 and 12", ErrInvalidInput, month)
	}
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: year %d must be between %d and %d", ErrInvalidInput, year, MinYear, MaxYear)
	}
	return nil
}

// DaysIn returns the number of days in the month, accounting for leap years.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Dates returns every day of the month at midnight UTC, in order.
func Dates(year int, month time.Month) []time.Time {
	n := DaysIn(year, month)
	days := make([]time.Time, n)
	for i := range days {
		days[i] = time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)
	}
	return days
}

// FolderName returns the name of the folder holding a month's reports,
// e.g. "February_2028".
func FolderName(year int, month time.Month) string {
	return fmt.Sprintf("%s_%d", month, year)
}

// FileName returns the report file name for day, e.g.
// "Rapport_d_activite_05-02-2028.docx".
func FileName(prefix string, day time.Time) string {
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	return prefix + "_" + day.Format("02-01-2006") + ".docx"
}
