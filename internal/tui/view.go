package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/weekplan/internal/planner"
	"github.com/roach88/weekplan/internal/task"
)

type styles struct {
	header    lipgloss.Style
	stats     lipgloss.Style
	dayTitle  lipgloss.Style
	dayMeta   lipgloss.Style
	empty     lipgloss.Style
	cursor    lipgloss.Style
	done      lipgloss.Style
	priority  map[task.Priority]lipgloss.Style
	status    lipgloss.Style
	errorLine lipgloss.Style
	help      lipgloss.Style
	prompt    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		stats:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		dayTitle: lipgloss.NewStyle().Bold(true),
		dayMeta:  lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		empty:    lipgloss.NewStyle().Faint(true).Italic(true),
		cursor:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		done:     lipgloss.NewStyle().Strikethrough(true).Faint(true),
		priority: map[task.Priority]lipgloss.Style{
			task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
			task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")),
			task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787")),
		},
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787")),
		errorLine: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		help:      lipgloss.NewStyle().Faint(true),
		prompt:    lipgloss.NewStyle().Bold(true),
	}
}

const helpLine = "←/→ week · t today · ↑/↓ select · space toggle · a add · e rename · d delete · q quit"

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.header.Render("Week of " + m.board.Label))
	b.WriteString("  ")
	b.WriteString(m.styles.stats.Render(fmt.Sprintf("%s, %d completed",
		planner.CountLabel(m.board.Stats.Total), m.board.Stats.Completed)))
	b.WriteString("\n")

	index := 0
	for _, col := range m.board.Columns {
		b.WriteString("\n")
		b.WriteString(m.styles.dayTitle.Render(col.Heading))
		b.WriteString(" ")
		b.WriteString(m.styles.dayMeta.Render(col.DateLabel + " · " + col.CountLabel))
		b.WriteString("\n")
		if len(col.Tasks) == 0 {
			b.WriteString("    " + m.styles.empty.Render("no tasks") + "\n")
			continue
		}
		for _, t := range col.Tasks {
			b.WriteString(m.renderTask(t, index == m.cursor))
			b.WriteString("\n")
			index++
		}
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) renderTask(t task.Task, selected bool) string {
	marker := "  "
	if selected {
		marker = m.styles.cursor.Render("> ")
	}
	box := "[ ]"
	title := t.Title
	if t.Completed {
		box = "[x]"
		title = m.styles.done.Render(title)
	}
	prio := m.styles.priority[t.Priority].Render(string(t.Priority))
	return fmt.Sprintf("  %s%s #%d %s %s", marker, box, t.ID, title, prio)
}

func (m *Model) footer() string {
	var lines []string
	switch m.mode {
	case modeConfirmDelete:
		if t, ok := m.selected(); ok {
			lines = append(lines, m.styles.prompt.Render(fmt.Sprintf("Delete #%d %q? (y/n)", t.ID, t.Title)))
		}
	case modeAdd:
		lines = append(lines, m.styles.prompt.Render("New task (enter to save, esc to cancel)"), m.input.View())
	case modeRename:
		lines = append(lines, m.styles.prompt.Render("Rename (enter to save, esc to cancel)"), m.input.View())
	}

	if m.err != nil {
		lines = append(lines, m.styles.errorLine.Render("Error: "+m.err.Error()))
	} else if m.status != "" {
		lines = append(lines, m.styles.status.Render(m.status))
	}
	lines = append(lines, m.styles.help.Render(helpLine))

	footer := strings.Join(lines, "\n")
	if m.width > 0 {
		footer = lipgloss.NewStyle().Width(m.width).Render(footer)
	}
	return footer
}
