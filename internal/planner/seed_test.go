package planner

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/weekplan/internal/kv"
	"github.com/roach88/weekplan/internal/persist"
	"github.com/roach88/weekplan/internal/task"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())

	added, err := p.Seed(ctx)
	require.NoError(t, err)
	require.Len(t, added, 3)
	assert.Equal(t, "Team meeting", added[0].Title)
	assert.Equal(t, "2025-07-28", added[0].Date)
	assert.Equal(t, "2025-07-29", added[1].Date)
	assert.Equal(t, "2025-08-01", added[2].Date)

	_, err = p.Seed(ctx)
	assert.ErrorIs(t, err, ErrNotEmpty)
	assert.Len(t, p.All(), 3)
}

func TestSeed_ConcurrentCallsSeedOnce(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())
	const callers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := p.Seed(ctx)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrNotEmpty)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, []int{1, 2, 3}, ids(p.All()))
}

func TestImport_DefaultsAndNormalizes(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())

	added, err := p.Import(ctx, []Entry{
		{Title: "Groceries", Day: " Saturday "},
		{Title: "Dentist", Day: "THURSDAY", Priority: "High"},
	})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, task.Saturday, added[0].Day)
	assert.Equal(t, task.PriorityMedium, added[0].Priority)
	assert.Equal(t, task.Thursday, added[1].Day)
	assert.Equal(t, task.PriorityHigh, added[1].Priority)
}

func TestImport_RejectsBeforeAdding(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())

	_, err := p.Import(ctx, []Entry{
		{Title: "fine", Day: "monday"},
		{Title: "bad", Day: "someday"},
	})
	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, 2, importErr.Index)
	assert.ErrorIs(t, err, task.ErrInvalidDay)
	assert.Empty(t, p.All())
}

func TestImport_StopsOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	store := newSwitchableKV()
	p := createTestPlanner(t, store, julyClock())
	store.setFailWrite(true)

	added, err := p.Import(ctx, SampleEntries)
	assert.ErrorIs(t, err, persist.ErrWriteFailed)
	assert.Len(t, added, 1)
	assert.Len(t, p.All(), 1)
}

func TestLoadImportFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`tasks:
  - title: Team meeting
    day: monday
    priority: high
  - title: Laundry
    day: sunday
`), 0o644))

	file, err := LoadImportFile(good)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Title: "Team meeting", Day: "monday", Priority: "high"},
		{Title: "Laundry", Day: "sunday"},
	}, file.Tasks)

	typo := filepath.Join(dir, "typo.yaml")
	require.NoError(t, os.WriteFile(typo, []byte(`tasks:
  - title: Team meeting
    day: monday
    priorty: high
`), 0o644))
	_, err = LoadImportFile(typo)
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = LoadImportFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read import file")
}

func TestImportYAML(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tasks:\n  - title: Laundry\n    day: sunday\n    priority: low\n"), 0o644))

	added, err := p.ImportYAML(ctx, path)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "2025-08-03", added[0].Date)

	_, err = p.ImportYAML(ctx, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
