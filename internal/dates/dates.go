// Package dates handles calendar dates without a time component.
//
// All values are anchored to local midnight so that comparisons follow the
// user's calendar day rather than UTC.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical due date encoding.
const Layout = "2006-01-02"

// monthNameLayout accepts dates written with an abbreviated month ("2025-May-01").
const monthNameLayout = "2006-Jan-02"

// Parse converts a calendar date string into local midnight of that day.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range []string{Layout, monthNameLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD)", s)
}

// Format renders t as YYYY-MM-DD using its local calendar fields.
func Format(t time.Time) string {
	return t.In(time.Local).Format(Layout)
}

// Truncate zeroes the time of day of t in the local time zone.
func Truncate(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Today returns the current local date at midnight. It is recomputed on every call.
func Today() time.Time {
	return Truncate(time.Now())
}

// AddDays returns the date n calendar days after t.
func AddDays(t time.Time, n int) time.Time {
	t = Truncate(t)
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, time.Local)
}

// IsOnOrAfterToday reports whether s parses to a date no earlier than the day of now.
func IsOnOrAfterToday(s string, now time.Time) bool {
	d, err := Parse(s)
	if err != nil {
		return false
	}
	return !d.Before(Truncate(now))
}

// IsBeforeToday reports whether s parses to a date strictly before the day of now.
// Unparseable input is never before today.
func IsBeforeToday(s string, now time.Time) bool {
	d, err := Parse(s)
	if err != nil {
		return false
	}
	return d.Before(Truncate(now))
}
