package persist

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/weekplan/internal/task"
)

// Encode serializes tasks as a JSON array. A nil slice encodes as [].
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses a blob written by Encode.
//
// An empty or all-whitespace blob is ErrNoSavedData. Anything that is not a
// JSON array of task objects, or that holds a record with a non-positive id,
// is ErrReadCorrupt. Records without a date are kept as legacy tasks.
func Decode(data []byte) ([]task.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrNoSavedData
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: blob is not an array", ErrReadCorrupt)
	}

	var tasks []task.Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCorrupt, err)
	}
	for i, t := range tasks {
		if t.ID <= 0 {
			return nil, fmt.Errorf("%w: record %d has id %d", ErrReadCorrupt, i, t.ID)
		}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}
