package week

import (
	"fmt"
	"time"
)

// KeyLayout is the reference layout for storage keys (YYYY-MM-DD).
const KeyLayout = "2006-01-02"

// Length is the number of days in a week.
const Length = 7

// MondayOf returns midnight of the Monday of the week containing t, in t's
// location. Sunday belongs to the week that started six days earlier.
func MondayOf(t time.Time) time.Time {
	// time.Weekday counts Sunday as 0; shift so Monday is 0 and Sunday is 6.
	offset := (int(t.Weekday()) + 6) % Length
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// Dates returns the seven dates of the week starting at monday.
// The argument is used as-is; callers pass an anchor produced by MondayOf.
func Dates(monday time.Time) [Length]time.Time {
	var out [Length]time.Time
	y, m, d := monday.Date()
	for i := range out {
		out[i] = time.Date(y, m, d+i, 0, 0, 0, 0, monday.Location())
	}
	return out
}

// Sunday returns the last date of the week starting at monday.
func Sunday(monday time.Time) time.Time {
	return Dates(monday)[Length-1]
}

// StorageKey formats t as YYYY-MM-DD from its local calendar fields.
func StorageKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseStorageKey parses a YYYY-MM-DD key as midnight in loc.
func ParseStorageKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(KeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", key, err)
	}
	return t, nil
}

// Bounds returns the storage keys of the first and last day of the week
// containing anchor. Keys compare lexicographically in calendar order.
func Bounds(anchor time.Time) (first, last string) {
	monday := MondayOf(anchor)
	return StorageKey(monday), StorageKey(Sunday(monday))
}

// IsMonday reports whether t is midnight on a Monday.
func IsMonday(t time.Time) bool {
	return t.Equal(MondayOf(t))
}
