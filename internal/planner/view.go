package planner

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/weekplan/internal/task"
	"github.com/roach88/weekplan/internal/week"
)

// TaskSource supplies a snapshot of all tasks in insertion order.
type TaskSource interface {
	All() []task.Task
}

// View projects a TaskSource onto calendar weeks. It never mutates tasks.
//
// A task belongs to a week when its date lies between that week's Monday and
// Sunday inclusive. Legacy tasks (no date) belong to every week.
type View struct {
	source TaskSource
}

// Stats summarizes one week.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Column is one day of a Board.
type Column struct {
	Day        task.Day    `json:"day"`
	Date       string      `json:"date"`
	Heading    string      `json:"heading"`
	DateLabel  string      `json:"dateLabel"`
	CountLabel string      `json:"countLabel"`
	Tasks      []task.Task `json:"tasks"`
}

// Board is everything a presentation layer needs to draw one week.
type Board struct {
	Anchor  string   `json:"anchor"`
	Label   string   `json:"label"`
	Columns []Column `json:"columns"`
	Stats   Stats    `json:"stats"`
}

// NewView creates a view over source.
func NewView(source TaskSource) *View {
	return &View{source: source}
}

// TasksForWeek returns the tasks of the week containing anchor, in insertion order.
func (v *View) TasksForWeek(anchor time.Time) []task.Task {
	return forWeek(v.source.All(), anchor)
}

// TasksForDay returns the tasks of the week containing anchor that sit under day.
func (v *View) TasksForDay(anchor time.Time, day task.Day) []task.Task {
	return forDay(forWeek(v.source.All(), anchor), day)
}

// CompletedInWeek returns the completed tasks of the week containing anchor.
func (v *View) CompletedInWeek(anchor time.Time) []task.Task {
	return completed(forWeek(v.source.All(), anchor))
}

// Statistics counts total and completed tasks of the week containing anchor.
func (v *View) Statistics(anchor time.Time) Stats {
	return statsOf(forWeek(v.source.All(), anchor))
}

// Board builds the seven day columns and statistics from a single snapshot.
func (v *View) Board(anchor time.Time) Board {
	monday := week.MondayOf(anchor)
	tasks := forWeek(v.source.All(), monday)
	title := cases.Title(language.English)

	dates := week.Dates(monday)
	columns := make([]Column, 0, len(task.Days))
	for i, day := range task.Days {
		dayTasks := forDay(tasks, day)
		columns = append(columns, Column{
			Day:        day,
			Date:       week.StorageKey(dates[i]),
			Heading:    title.String(string(day)),
			DateLabel:  week.DayLabel(dates[i]),
			CountLabel: CountLabel(len(dayTasks)),
			Tasks:      dayTasks,
		})
	}

	return Board{
		Anchor:  week.StorageKey(monday),
		Label:   week.RangeLabel(monday),
		Columns: columns,
		Stats:   statsOf(tasks),
	}
}

// CountLabel renders a task count: "1 task", "0 tasks", "5 tasks".
func CountLabel(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

func forWeek(tasks []task.Task, anchor time.Time) []task.Task {
	first, last := week.Bounds(anchor)
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.InRange(first, last) {
			out = append(out, t)
		}
	}
	return out
}

func forDay(tasks []task.Task, day task.Day) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Day == day {
			out = append(out, t)
		}
	}
	return out
}

func completed(tasks []task.Task) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

func statsOf(tasks []task.Task) Stats {
	return Stats{Total: len(tasks), Completed: len(completed(tasks))}
}
