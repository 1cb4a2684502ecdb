// Package tui is the interactive weekly board.
//
// It follows the bubbletea loop: a key press becomes a planner intent, the
// planner mutates and saves, and the board is rebuilt from the planner's
// view before the next render.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/weekplan/internal/planner"
	"github.com/roach88/weekplan/internal/task"
)

// mode is what the keyboard currently drives.
type mode int

const (
	modeBrowse        mode = iota // moving around the board
	modeConfirmDelete             // waiting for y/n
	modeAdd                       // typing "<day> <priority> <title>"
	modeRename                    // editing the selected title
)

// Model is the bubbletea model for the board.
type Model struct {
	ctx     context.Context
	planner *planner.Planner

	board  planner.Board
	cursor int
	mode   mode
	input  textinput.Model

	status string
	err    error
	width  int
	styles styles
}

// New creates a board over p showing p's displayed week.
func New(ctx context.Context, p *planner.Planner) *Model {
	input := textinput.New()
	input.CharLimit = task.MaxTitleLength + 32
	input.Prompt = "> "

	m := &Model{
		ctx:     ctx,
		planner: p,
		input:   input,
		styles:  defaultStyles(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeAdd, modeRename:
			return m.updateInput(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.planner.Previous()
		m.changedWeek()
	case "right", "l":
		m.planner.Next()
		m.changedWeek()
	case "t":
		m.planner.Today()
		m.changedWeek()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case " ":
		if t, ok := m.selected(); ok {
			updated, err := m.planner.ToggleCompletion(m.ctx, t.ID)
			m.report(err, "%s #%d", toggleVerb(updated), t.ID)
			m.refresh()
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	case "a":
		m.mode = modeAdd
		m.input.Reset()
		m.input.Placeholder = "<day> <priority> <title>"
		return m, m.input.Focus()
	case "e":
		if t, ok := m.selected(); ok {
			m.mode = modeRename
			m.input.SetValue(t.Title)
			m.input.Placeholder = "new title"
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	t, ok := m.selected()
	if !ok || (msg.String() != "y" && msg.String() != "Y") {
		m.status, m.err = "", nil
		return m, nil
	}
	err := m.planner.Remove(m.ctx, t.ID)
	m.report(err, "Removed #%d", t.ID)
	m.refresh()
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.leaveInput()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		if m.mode == modeAdd {
			m.submitAdd(value)
		} else {
			m.submitRename(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitAdd(value string) {
	fields := strings.Fields(value)
	if len(fields) < 3 {
		m.report(fmt.Errorf("type <day> <priority> <title>"), "")
		return
	}
	t, err := m.planner.Add(m.ctx,
		strings.Join(fields[2:], " "),
		task.Day(strings.ToLower(fields[0])),
		task.Priority(strings.ToLower(fields[1])))
	if t.ID == 0 && err != nil {
		// Validation failed: keep the prompt open so the text can be fixed.
		m.report(err, "")
		return
	}
	m.leaveInput()
	m.report(err, "Added #%d", t.ID)
	m.refresh()
	m.selectID(t.ID)
}

func (m *Model) submitRename(value string) {
	t, ok := m.selected()
	if !ok {
		m.leaveInput()
		return
	}
	_, err := m.planner.Rename(m.ctx, t.ID, value)
	if task.IsValidationError(err) {
		m.report(err, "")
		return
	}
	m.leaveInput()
	m.report(err, "Renamed #%d", t.ID)
	m.refresh()
}

func (m *Model) leaveInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()
}

// report sets the status line from an operation's outcome.
func (m *Model) report(err error, format string, args ...any) {
	m.err = err
	m.status = ""
	if err == nil && format != "" {
		m.status = fmt.Sprintf(format, args...)
	}
}

// refresh rebuilds the board and keeps the cursor in range.
func (m *Model) refresh() {
	m.board = m.planner.Board()
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *Model) changedWeek() {
	m.cursor = 0
	m.status, m.err = "", nil
	m.refresh()
}

// visible lists the board's tasks in display order, Monday first.
func (m *Model) visible() []task.Task {
	var out []task.Task
	for _, col := range m.board.Columns {
		out = append(out, col.Tasks...)
	}
	return out
}

func (m *Model) selected() (task.Task, bool) {
	tasks := m.visible()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) selectID(id int) {
	for i, t := range m.visible() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func toggleVerb(t task.Task) string {
	if t.Completed {
		return "Completed"
	}
	return "Reopened"
}

// Run starts the board full-screen and blocks until the user quits.
func Run(ctx context.Context, p *planner.Planner) error {
	program := tea.NewProgram(
		New(ctx, p),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := program.Run()
	return err
}
