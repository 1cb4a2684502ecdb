package week

import (
	"fmt"
	"time"
)

// DayLabel formats t as a short month and day, e.g. "Jul 28".
func DayLabel(t time.Time) string {
	return t.Format("Jan 2")
}

// RangeLabel formats the week starting at monday, e.g. "Jul 28 - Aug 3, 2025".
// When both ends fall in the same month the month is printed once:
// "Jul 7 - 13, 2025". The year is always the Monday's year.
func RangeLabel(monday time.Time) string {
	sunday := Sunday(monday)
	if sunday.Month() == monday.Month() && sunday.Year() == monday.Year() {
		return fmt.Sprintf("%s - %d, %d", DayLabel(monday), sunday.Day(), monday.Year())
	}
	return fmt.Sprintf("%s - %s, %d", DayLabel(monday), DayLabel(sunday), monday.Year())
}
