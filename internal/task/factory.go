package task

import (
	"fmt"
	"time"

	"github.com/roach88/weekplan/internal/week"
)

// New builds a task bound to the date day resolves to in the week of anchor.
//
// The title is normalized but not length-checked; run Validate first. The id
// is taken as given: the store draws it from its sequence under lock.
func New(title string, day Day, priority Priority, anchor time.Time, id int, createdAt time.Time) (Task, error) {
	idx := day.Index()
	if idx < 0 {
		return Task{}, ErrInvalidDay.with(string(day))
	}
	date := week.Dates(week.MondayOf(anchor))[idx]
	if DayOf(date) != day {
		return Task{}, fmt.Errorf("task for %s resolved to %s (%s)", day, week.StorageKey(date), DayOf(date))
	}

	return Task{
		ID:        id,
		Title:     NormalizeTitle(title),
		Day:       day,
		Date:      week.StorageKey(date),
		Priority:  priority,
		Completed: false,
		CreatedAt: week.StorageKey(createdAt),
	}, nil
}
