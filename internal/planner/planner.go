// Package planner holds the weekly planner's state: the task store, the
// displayed-week navigator, and the read-only projections derived from them.
//
// Planner is built once at startup and handed to whichever presentation
// layer drives it (CLI command, shell, TUI). Every intent flows through it:
//
//	intent -> Store mutation -> Persister write -> View recomputation
package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/weekplan/internal/task"
	"github.com/roach88/weekplan/internal/week"
)

// Planner joins a Store, a week.Navigator and a View.
type Planner struct {
	store  *Store
	nav    *week.Navigator
	view   *View
	logger *slog.Logger
}

// New creates a planner anchored on the current week of clock.
// A nil clock means week.SystemClock; a nil logger means slog.Default().
// The store starts empty; call Load to restore saved tasks.
func New(persister Persister, clock week.Clock, logger *slog.Logger) *Planner {
	if clock == nil {
		clock = week.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	nav := week.NewNavigator(clock)
	store := NewStore(persister, nav, WithClock(clock), WithLogger(logger))
	return &Planner{
		store:  store,
		nav:    nav,
		view:   NewView(store),
		logger: logger,
	}
}

// Load restores saved tasks. See Store.Load.
func (p *Planner) Load(ctx context.Context) LoadStatus {
	return p.store.Load(ctx)
}

// Store returns the underlying store.
func (p *Planner) Store() *Store { return p.store }

// View returns the projection over the store, for anchors other than the current one.
func (p *Planner) View() *View { return p.view }

// Anchor returns the Monday of the displayed week.
func (p *Planner) Anchor() time.Time { return p.nav.Anchor() }

// Previous shows the week before.
func (p *Planner) Previous() time.Time { return p.navigated("previous", p.nav.Previous()) }

// Next shows the week after.
func (p *Planner) Next() time.Time { return p.navigated("next", p.nav.Next()) }

// Today shows the current week.
func (p *Planner) Today() time.Time { return p.navigated("today", p.nav.Today()) }

// Jump shows the week containing t.
func (p *Planner) Jump(t time.Time) time.Time { return p.navigated("jump", p.nav.Jump(t)) }

// Offset moves the displayed week by weeks (negative is backwards).
func (p *Planner) Offset(weeks int) time.Time { return p.navigated("offset", p.nav.Offset(weeks)) }

func (p *Planner) navigated(how string, anchor time.Time) time.Time {
	p.logger.Debug("week changed", "via", how, "anchor", week.StorageKey(anchor))
	return anchor
}

// Add creates a task on day of the displayed week.
func (p *Planner) Add(ctx context.Context, title string, day task.Day, priority task.Priority) (task.Task, error) {
	return p.store.Add(ctx, title, day, priority)
}

// ToggleCompletion flips the completed flag of task id.
func (p *Planner) ToggleCompletion(ctx context.Context, id int) (task.Task, error) {
	return p.store.ToggleCompletion(ctx, id)
}

// Rename changes the title of task id.
func (p *Planner) Rename(ctx context.Context, id int, title string) (task.Task, error) {
	return p.store.Rename(ctx, id, title)
}

// Remove deletes task id. Callers confirm with the user beforehand.
func (p *Planner) Remove(ctx context.Context, id int) error {
	return p.store.Remove(ctx, id)
}

// Clear deletes every task and the saved blob. Callers confirm beforehand.
func (p *Planner) Clear(ctx context.Context) error {
	return p.store.Clear(ctx)
}

// Get returns task id.
func (p *Planner) Get(id int) (task.Task, error) { return p.store.Get(id) }

// All returns every task of every week, oldest first.
func (p *Planner) All() []task.Task { return p.store.All() }

// TasksForWeek returns the displayed week's tasks.
func (p *Planner) TasksForWeek() []task.Task { return p.view.TasksForWeek(p.nav.Anchor()) }

// TasksForDay returns the displayed week's tasks under day.
func (p *Planner) TasksForDay(day task.Day) []task.Task {
	return p.view.TasksForDay(p.nav.Anchor(), day)
}

// CompletedInWeek returns the displayed week's completed tasks.
func (p *Planner) CompletedInWeek() []task.Task { return p.view.CompletedInWeek(p.nav.Anchor()) }

// Statistics counts the displayed week's tasks.
func (p *Planner) Statistics() Stats { return p.view.Statistics(p.nav.Anchor()) }

// Board returns the displayed week ready for rendering.
func (p *Planner) Board() Board { return p.view.Board(p.nav.Anchor()) }
