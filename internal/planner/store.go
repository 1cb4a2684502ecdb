package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/weekplan/internal/persist"
	"github.com/roach88/weekplan/internal/task"
	"github.com/roach88/weekplan/internal/week"
)

// ErrNotFound is returned when a mutation names an id the store does not hold.
var ErrNotFound = errors.New("task not found")

// Persister saves and restores the full task collection.
// persist.Adapter is the production implementation.
type Persister interface {
	Load(ctx context.Context) ([]task.Task, error)
	Save(ctx context.Context, tasks []task.Task) error
	Clear(ctx context.Context) error
}

// AnchorSource reports the Monday new tasks are resolved against.
// week.Navigator is the production implementation.
type AnchorSource interface {
	Anchor() time.Time
}

// LoadStatus describes what Load found.
type LoadStatus int

const (
	// LoadStatusLoaded means tasks were restored from the saved blob.
	LoadStatusLoaded LoadStatus = iota
	// LoadStatusNoSavedData means nothing was saved yet.
	LoadStatusNoSavedData
	// LoadStatusCorrupt means the saved blob was unreadable and was ignored.
	LoadStatusCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case LoadStatusLoaded:
		return "loaded"
	case LoadStatusNoSavedData:
		return "no saved data"
	case LoadStatusCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// Store is the in-memory task collection and the only place it is mutated.
//
// Every mutation writes the whole collection through the Persister. Save
// failures are handled per operation:
//   - Add, ToggleCompletion, Remove keep their in-memory effect and return
//     an error wrapping persist.ErrWriteFailed.
//   - Rename restores the previous title before returning the error.
//
// Thread-safety: all methods serialize on one mutex, which also orders id
// assignment and persistence writes.
type Store struct {
	mu        sync.Mutex
	tasks     []task.Task
	ids       *IDSequence
	persister Persister
	anchor    AnchorSource
	clock     week.Clock
	logger    *slog.Logger
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock sets the clock used for createdAt. Defaults to week.SystemClock.
func WithClock(clock week.Clock) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an empty store. Call Load to restore saved tasks.
func NewStore(persister Persister, anchor AnchorSource, opts ...StoreOption) *Store {
	s := &Store{
		ids:       NewIDSequence(),
		persister: persister,
		anchor:    anchor,
		clock:     week.SystemClock{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the persisted one.
//
// It never fails: a missing or unreadable blob leaves the store empty with
// the next id at 1. Records repeating an earlier id are dropped.
func (s *Store) Load(ctx context.Context) LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.persister.Load(ctx)
	switch {
	case errors.Is(err, persist.ErrNoSavedData):
		s.reset()
		s.logger.Info("no saved tasks")
		return LoadStatusNoSavedData
	case err != nil:
		s.reset()
		s.logger.Warn("saved tasks unreadable, starting fresh", "error", err)
		return LoadStatusCorrupt
	}

	seen := make(map[int]bool, len(loaded))
	tasks := make([]task.Task, 0, len(loaded))
	maxID := 0
	for _, t := range loaded {
		if seen[t.ID] {
			s.logger.Warn("dropping task with duplicate id", "id", t.ID, "title", t.Title)
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
		maxID = max(maxID, t.ID)
	}
	s.tasks = tasks
	s.ids = NewIDSequenceAt(maxID)

	s.logger.Info("tasks loaded", "count", len(tasks), "next_id", s.ids.Peek())
	return LoadStatusLoaded
}

// Add validates the input, creates a task in the anchor week and saves.
//
// Validation failures leave the store untouched. A save failure still
// returns the new task, which stays in the store, alongside the error.
func (s *Store) Add(ctx context.Context, title string, day task.Day, priority task.Priority) (task.Task, error) {
	if err := task.Validate(title, string(day), string(priority)); err != nil {
		return task.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ctx, title, day, priority)
}

// AddBatch adds entries in order while holding the lock throughout, so no
// other mutation interleaves. With requireEmpty it fails with ErrNotEmpty
// unless the store holds no tasks.
//
// Entries must already be valid. A failure stops the batch; the tasks added
// before it are returned with an *ImportError naming the failed entry.
func (s *Store) AddBatch(ctx context.Context, entries []Entry, requireEmpty bool) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requireEmpty && len(s.tasks) > 0 {
		return nil, ErrNotEmpty
	}

	added := make([]task.Task, 0, len(entries))
	for i, e := range entries {
		t, err := s.addLocked(ctx, e.Title, task.Day(normalizeName(e.Day)), task.Priority(priorityOrDefault(e.Priority)))
		if t.ID != 0 {
			added = append(added, t)
		}
		if err != nil {
			return added, &ImportError{Index: i + 1, Err: err}
		}
	}
	return added, nil
}

func (s *Store) addLocked(ctx context.Context, title string, day task.Day, priority task.Priority) (task.Task, error) {
	t, err := task.New(title, day, priority, s.anchor.Anchor(), s.ids.Peek(), s.clock.Now())
	if err != nil {
		return task.Task{}, err
	}
	s.ids.Next()
	s.tasks = append(s.tasks, t)
	s.logger.Debug("task added", "id", t.ID, "day", t.Day, "date", t.Date, "priority", t.Priority)

	if err := s.saveLocked(ctx); err != nil {
		return t, fmt.Errorf("add task %d: %w", t.ID, err)
	}
	return t, nil
}

// ToggleCompletion flips the completed flag of task id and saves.
func (s *Store) ToggleCompletion(ctx context.Context, id int) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("toggle task %d: %w", id, ErrNotFound)
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	t := s.tasks[i]
	s.logger.Debug("task toggled", "id", id, "completed", t.Completed)

	if err := s.saveLocked(ctx); err != nil {
		return t, fmt.Errorf("toggle task %d: %w", id, err)
	}
	return t, nil
}

// Rename replaces the title of task id and saves.
//
// An invalid title leaves the task unchanged. If the save fails the old
// title is restored, and the returned task carries it.
func (s *Store) Rename(ctx context.Context, id int, title string) (task.Task, error) {
	if err := task.ValidateTitle(title); err != nil {
		return task.Task{}, fmt.Errorf("rename task %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("rename task %d: %w", id, ErrNotFound)
	}
	previous := s.tasks[i].Title
	s.tasks[i].Title = task.NormalizeTitle(title)

	if err := s.saveLocked(ctx); err != nil {
		s.tasks[i].Title = previous
		s.logger.Warn("rename rolled back", "id", id)
		return s.tasks[i], fmt.Errorf("rename task %d: %w", id, err)
	}
	s.logger.Debug("task renamed", "id", id)
	return s.tasks[i], nil
}

// Remove deletes task id and saves. The id is never reissued.
func (s *Store) Remove(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("remove task %d: %w", id, ErrNotFound)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.logger.Debug("task removed", "id", id)

	if err := s.saveLocked(ctx); err != nil {
		return fmt.Errorf("remove task %d: %w", id, err)
	}
	return nil
}

// Clear deletes the saved blob, then empties the store and restarts ids at 1.
// If the blob cannot be deleted the store is left as it was.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persister.Clear(ctx); err != nil {
		s.logger.Warn("clear failed", "error", err)
		return fmt.Errorf("clear tasks: %w", err)
	}
	s.reset()
	s.logger.Info("all tasks cleared")
	return nil
}

// Get returns task id.
func (s *Store) Get(id int) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	return s.tasks[i], nil
}

// All returns a copy of every task, oldest first.
func (s *Store) All() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// NextID returns the id the next Add will assign.
func (s *Store) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids.Peek()
}

func (s *Store) indexLocked(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked(ctx context.Context) error {
	if err := s.persister.Save(ctx, s.tasks); err != nil {
		s.logger.Warn("save failed", "error", err, "count", len(s.tasks))
		return err
	}
	return nil
}

func (s *Store) reset() {
	s.tasks = nil
	s.ids.Reset()
}
