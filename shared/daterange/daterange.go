// Package daterange implements half-open calendar date ranges.
//
// A stay occupies [check-in, check-out): the check-out day itself is free,
// so a stay ending on the 16th never collides with one starting on the 16th.
package daterange

import (
	"errors"
	"fmt"
	"time"
)

const Layout = time.DateOnly

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("start date must be before end date")
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

type Range struct {
	Start time.Time
	End   time.Time
}

// New builds a range and rejects empty or inverted intervals.
func New(start, end time.Time) (Range, error) {
	r := Range{Start: DateOf(start), End: DateOf(end)}
	if !r.Valid() {
		return Range{}, fmt.Errorf("%w: %s ~ %s", ErrInvalidRange, r.Start.Format(Layout), r.End.Format(Layout))
	}

	return r, nil
}

// Parse builds a range from two YYYY-MM-DD strings.
func Parse(start, end string) (Range, error) {
	startDate, err := ParseDate(start)
	if err != nil {
		return Range{}, err
	}

	endDate, err := ParseDate(end)
	if err != nil {
		return Range{}, err
	}

	return New(startDate, endDate)
}

func (r Range) Valid() bool {
	return r.Start.Before(r.End)
}

func (r Range) Overlaps(other Range) bool {
	return Overlaps(r.Start, r.End, other.Start, other.End)
}

func (r Range) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24) //nolint:mnd
}

func (r Range) String() string {
	return r.Start.Format(Layout) + "~" + r.End.Format(Layout)
}

// ParseDate parses YYYY-MM-DD as a calendar date with no timezone shift.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, value)
	}

	return date, nil
}

// DateOf drops the clock part of t, keeping its wall-clock date, and returns it as a UTC midnight.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay compares calendar dates regardless of the location attached to either value.
func SameDay(a, b time.Time) bool {
	return a.Format(Layout) == b.Format(Layout)
}

// Format renders the calendar date of t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}
