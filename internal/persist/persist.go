// Package persist stores the planner's task collection as one JSON blob
// under a single key of a kv.KV.
//
// The blob is the full collection, rewritten on every save. There is no
// incremental format and no versioning beyond tolerating records without a
// date (legacy tasks).
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/weekplan/internal/kv"
	"github.com/roach88/weekplan/internal/task"
)

// DefaultKey is the key the task blob is stored under.
const DefaultKey = "weeklyPlannerTasks"

var (
	// ErrNoSavedData means the key holds nothing; start with an empty collection.
	ErrNoSavedData = errors.New("no saved data")

	// ErrReadCorrupt means the stored blob could not be read as a task list.
	ErrReadCorrupt = errors.New("saved tasks are unreadable")

	// ErrWriteFailed means the collection could not be written.
	ErrWriteFailed = errors.New("could not save tasks")
)

// Adapter reads and writes the task blob.
type Adapter struct {
	kv     kv.KV
	key    string
	logger *slog.Logger
}

// NewAdapter creates an adapter over store. An empty key means DefaultKey;
// a nil logger means slog.Default().
func NewAdapter(store kv.KV, key string, logger *slog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{kv: store, key: key, logger: logger}
}

// Key returns the key the blob is stored under.
func (a *Adapter) Key() string {
	return a.key
}

// Load returns the persisted tasks in stored order.
//
// Errors match ErrNoSavedData when nothing is stored and ErrReadCorrupt when
// the blob is unreadable; either way the caller starts empty.
func (a *Adapter) Load(ctx context.Context) ([]task.Task, error) {
	data, err := a.kv.Get(ctx, a.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNoSavedData
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCorrupt, err)
	}

	tasks, err := Decode(data)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("tasks loaded", "key", a.key, "count", len(tasks))
	return tasks, nil
}

// Save overwrites the blob with tasks. Errors match ErrWriteFailed.
func (a *Adapter) Save(ctx context.Context, tasks []task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if err := a.kv.Set(ctx, a.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	a.logger.Debug("tasks saved", "key", a.key, "count", len(tasks), "bytes", len(data))
	return nil
}

// Clear removes the blob. Errors match ErrWriteFailed.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.kv.Remove(ctx, a.key); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	a.logger.Debug("tasks cleared", "key", a.key)
	return nil
}
