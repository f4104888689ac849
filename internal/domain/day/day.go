// Package day provides a calendar-date value type with no time-of-day
// component. Scheduling arithmetic and calendar grids work in whole days;
// keeping a dedicated type rules out time-component and DST bugs that
// creep in when time.Time stands in for a date.
package day

import (
	"errors"
	"time"
)

// Format is the wire format for dates throughout the app.
const Format = "2006-01-02"

// ErrBadFormat is returned by Parse for anything that is not YYYY-MM-DD.
var ErrBadFormat = errors.New("date must be YYYY-MM-DD")

// Date is a calendar date. It is comparable and usable as a map key.
// The zero value is not a meaningful date; IsZero reports it.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New builds a Date from its parts. Out-of-range parts normalize the way
// time.Date normalizes them (e.g. Jan 32 becomes Feb 1).
func New(year int, month time.Month, d int) Date {
	return Of(time.Date(year, month, d, 0, 0, 0, 0, time.UTC))
}

// Of strips the time of day from t. Idempotent: Of(d.Time()) == d.
func Of(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Format, s)
	if err != nil {
		return Date{}, ErrBadFormat
	}
	return Of(t), nil
}

// Time returns midnight UTC on d. Day arithmetic goes through UTC so a
// daylight-saving transition can never shift the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Of(d.Time().AddDate(0, 0, n))
}

// Weekday returns the day of the week d falls on.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// WeekMonday returns the Monday of the week containing d, with weeks
// running Monday through Sunday.
func (d Date) WeekMonday() Date {
	return d.AddDays(-mondayIndex(d.Weekday()))
}

// Before reports whether d falls before o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	var zero Date
	return d == zero
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(Format)
}

// Label formats d for people, weekday included, e.g. "Sat 3 Aug 2024".
func (d Date) Label() string {
	return d.Format("Mon 2 Jan 2006")
}

// Format renders d with a time layout string.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

// MarshalText renders d as YYYY-MM-DD so JSON payloads carry dates as
// strings rather than year/month/day structs.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a YYYY-MM-DD string in place.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Set is a membership set of dates.
type Set map[Date]struct{}

// NewSet builds a Set from dates. Duplicates collapse.
func NewSet(dates ...Date) Set {
	s := make(Set, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

// Contains reports whether d is in the set.
func (s Set) Contains(d Date) bool {
	_, ok := s[d]
	return ok
}

// MonthWeeks lays out a month as Monday-first weeks of day numbers.
// PRE: month is a valid time.Month
// POST: every week has exactly 7 entries; cells outside the month are zero
func MonthWeeks(year int, month time.Month) [][]int {
	first := New(year, month, 1)
	// Day 0 of the following month is the last day of this one.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	weeks := make([][]int, 0, 6)
	week := make([]int, 7)
	col := mondayIndex(first.Weekday())
	for dayNum := 1; dayNum <= last; dayNum++ {
		week[col] = dayNum
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]int, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// mondayIndex maps a weekday to its offset from Monday (Monday=0 … Sunday=6).
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
