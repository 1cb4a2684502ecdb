package planner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/weekplan/internal/task"
)

// ErrNotEmpty is returned by Seed when the store already holds tasks.
var ErrNotEmpty = errors.New("store already has tasks")

// Entry is one task to create: a title, a weekday name and a priority.
type Entry struct {
	Title    string `yaml:"title"`
	Day      string `yaml:"day"`
	Priority string `yaml:"priority,omitempty"`
}

// ImportFile is the YAML document accepted by Import:
//
//	tasks:
//	  - title: Team meeting
//	    day: monday
//	    priority: high
type ImportFile struct {
	Tasks []Entry `yaml:"tasks"`
}

// ImportError reports which entry (1-based) was rejected.
type ImportError struct {
	Index int
	Err   error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// SampleEntries are the tasks Seed creates.
var SampleEntries = []Entry{
	{Title: "Team meeting", Day: string(task.Monday), Priority: string(task.PriorityHigh)},
	{Title: "Code review", Day: string(task.Tuesday), Priority: string(task.PriorityMedium)},
	{Title: "Weekly planning", Day: string(task.Friday), Priority: string(task.PriorityMedium)},
}

// Seed adds SampleEntries to the displayed week of an empty store.
// The emptiness check and the adds form one store operation, so concurrent
// Seed calls cannot both succeed.
func (p *Planner) Seed(ctx context.Context) ([]task.Task, error) {
	return p.importEntries(ctx, SampleEntries, true)
}

// Import adds entries to the displayed week, in order.
//
// Every entry is validated before any task is created, so a bad entry adds
// nothing. An entry without a priority gets medium. A save failure stops the
// import; tasks added up to that point stay, as with Add.
func (p *Planner) Import(ctx context.Context, entries []Entry) ([]task.Task, error) {
	return p.importEntries(ctx, entries, false)
}

func (p *Planner) importEntries(ctx context.Context, entries []Entry, requireEmpty bool) ([]task.Task, error) {
	for i, e := range entries {
		if err := task.Validate(e.Title, normalizeName(e.Day), priorityOrDefault(e.Priority)); err != nil {
			return nil, &ImportError{Index: i + 1, Err: err}
		}
	}

	added, err := p.store.AddBatch(ctx, entries, requireEmpty)
	if err != nil {
		return added, err
	}
	p.logger.Info("tasks imported", "count", len(added))
	return added, nil
}

// ImportYAML loads the YAML file at path and imports its entries.
func (p *Planner) ImportYAML(ctx context.Context, path string) ([]task.Task, error) {
	file, err := LoadImportFile(path)
	if err != nil {
		return nil, err
	}
	return p.Import(ctx, file.Tasks)
}

// LoadImportFile reads and parses an import YAML file.
// Unknown fields are rejected so typos like "priorty:" surface.
func LoadImportFile(path string) (*ImportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var file ImportFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &file, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func priorityOrDefault(p string) string {
	p = normalizeName(p)
	if p == "" {
		return string(task.PriorityMedium)
	}
	return p
}
