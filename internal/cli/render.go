package cli

import (
	"fmt"
	"io"

	"github.com/roach88/weekplan/internal/planner"
	"github.com/roach88/weekplan/internal/task"
)

// legacyDate stands in for the date of tasks saved before dates existed.
const legacyDate = "----------"

// renderBoard draws one week, a section per day.
func renderBoard(w io.Writer, b planner.Board) error {
	fmt.Fprintf(w, "Week of %s  (%s, %d completed)\n", b.Label, planner.CountLabel(b.Stats.Total), b.Stats.Completed)
	for _, col := range b.Columns {
		fmt.Fprintf(w, "\n%s, %s - %s\n", col.Heading, col.DateLabel, col.CountLabel)
		if len(col.Tasks) == 0 {
			fmt.Fprintln(w, "  (no tasks)")
			continue
		}
		for _, t := range col.Tasks {
			fmt.Fprintf(w, "  %s #%d %s (%s)\n", checkbox(t), t.ID, t.Title, t.Priority)
		}
	}
	return nil
}

// renderList draws every task on one line each, oldest first.
func renderList(w io.Writer, tasks []task.Task) error {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return nil
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "%s #%-3d %s %-9s %-6s %s\n", checkbox(t), t.ID, dateOf(t), t.Day, t.Priority, t.Title)
	}
	return nil
}

// weekStats is the payload of the stats command.
type weekStats struct {
	Week  string `json:"week"`
	Label string `json:"label"`
	planner.Stats
}

func renderStats(w io.Writer, s weekStats) error {
	fmt.Fprintf(w, "%s: %s, %d completed\n", s.Label, planner.CountLabel(s.Total), s.Completed)
	return nil
}

// renderTask reports the outcome of a single-task command.
func renderTask(w io.Writer, verb string, t task.Task) error {
	fmt.Fprintf(w, "%s #%d %q on %s %s (%s)\n", verb, t.ID, t.Title, t.Day, dateOf(t), t.Priority)
	return nil
}

func checkbox(t task.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

func dateOf(t task.Task) string {
	if t.IsLegacy() {
		return legacyDate
	}
	return t.Date
}
