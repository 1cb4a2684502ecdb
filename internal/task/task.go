// Package task defines the planner's task record, its enumerations, and the
// rules a task must satisfy before it enters the store.
package task

import "time"

// Day names the weekday column a task is displayed under.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Days lists the weekdays in display order, Monday first.
var Days = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index returns the position of d in Days, or -1 if d is not a weekday name.
func (d Day) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the seven weekday names.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// DayOf returns the Day for t's weekday.
func DayOf(t time.Time) Day {
	// time.Weekday starts at Sunday.
	return Days[(int(t.Weekday())+6)%len(Days)]
}

// Priority is the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities, lowest first.
var Priorities = [3]Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is low, medium or high.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Task is one planned item.
//
// Date is the YYYY-MM-DD date Day resolved to when the task was created and
// never changes afterwards. Records persisted before dates were tracked have
// an empty Date; those are legacy tasks and show up in every week.
type Task struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Day       Day      `json:"day"`
	Date      string   `json:"date,omitempty"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
	CreatedAt string   `json:"createdAt"`
}

// IsLegacy reports whether the task has no date binding.
func (t Task) IsLegacy() bool {
	return t.Date == ""
}

// InRange reports whether the task belongs to the inclusive date-key range
// [first, last]. Legacy tasks are in every range.
func (t Task) InRange(first, last string) bool {
	if t.IsLegacy() {
		return true
	}
	return t.Date >= first && t.Date <= last
}
