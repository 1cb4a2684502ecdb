package planner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/weekplan/internal/kv"
	"github.com/roach88/weekplan/internal/persist"
	"github.com/roach88/weekplan/internal/task"
	"github.com/roach88/weekplan/internal/week"
)

func TestAdd_ResolvesDateFromAnchor(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())

	tk, err := p.Add(ctx, "Team meeting", task.Monday, task.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, 1, tk.ID)
	assert.Equal(t, "2025-07-28", tk.Date)
	assert.Equal(t, "2025-07-28", tk.CreatedAt)
	assert.False(t, tk.Completed)

	p.Next()
	later, err := p.Add(ctx, "Retro", task.Sunday, task.PriorityLow)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-10", later.Date)
	assert.Equal(t, "2025-07-28", later.CreatedAt, "createdAt is the real date, not the anchor")
}

func TestAdd_EveryDayMatchesWeekDates(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())
	p.Offset(-30)
	dates := week.Dates(p.Anchor())

	for i, day := range task.Days {
		tk, err := p.Add(ctx, "x", day, task.PriorityLow)
		require.NoError(t, err)
		assert.Equal(t, week.StorageKey(dates[i]), tk.Date)
	}
}

func TestAdd_ValidationLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	store := newSwitchableKV()
	p := createTestPlanner(t, store, julyClock())

	_, err := p.Add(ctx, "", task.Monday, task.PriorityMedium)
	assert.ErrorIs(t, err, task.ErrEmptyTitle)

	_, err = p.Add(ctx, "ok", task.Day("noday"), task.Priority("nope"))
	assert.ErrorIs(t, err, task.ErrInvalidDay)

	_, err = p.Add(ctx, "ok", task.Monday, task.Priority("nope"))
	assert.ErrorIs(t, err, task.ErrInvalidPriority)

	assert.Equal(t, 0, p.Store().Len())
	assert.Equal(t, 1, p.Store().NextID())
	assert.Equal(t, 0, store.writes, "nothing persisted")
}

func TestAdd_SaveFailureKeepsTask(t *testing.T) {
	ctx := context.Background()
	store := newSwitchableKV()
	p := createTestPlanner(t, store, julyClock())
	store.setFailWrite(true)

	tk, err := p.Add(ctx, "Write report", task.Wednesday, task.PriorityHigh)
	require.Error(t, err)
	assert.ErrorIs(t, err, persist.ErrWriteFailed)
	assert.Equal(t, 1, tk.ID)
	assert.Len(t, p.All(), 1)

	store.setFailWrite(false)
	next, err := p.Add(ctx, "Follow up", task.Thursday, task.PriorityLow)
	require.NoError(t, err)
	assert.Equal(t, 2, next.ID)

	reloaded := createTestPlanner(t, store, julyClock())
	assert.Len(t, reloaded.All(), 2, "the next successful save carries the earlier task")
}

func TestIDs_StrictlyIncreasingAcrossRemoves(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())

	last := 0
	for i := 0; i < 20; i++ {
		tk, err := p.Add(ctx, fmt.Sprintf("task %d", i), task.Days[i%7], task.PriorityMedium)
		require.NoError(t, err)
		assert.Greater(t, tk.ID, last)
		last = tk.ID

		if i%3 == 0 {
			require.NoError(t, p.Remove(ctx, tk.ID))
		}
	}

	// Removing the newest task does not free its id.
	all := p.All()
	require.NoError(t, p.Remove(ctx, all[len(all)-1].ID))
	tk, err := p.Add(ctx, "after remove", task.Monday, task.PriorityLow)
	require.NoError(t, err)
	assert.Equal(t, last+1, tk.ID)
}

func TestIDs_UniqueUnderConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())
	const n = 50

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := p.Add(ctx, fmt.Sprintf("t%d", i), task.Friday, task.PriorityLow)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	seen := map[int]bool{}
	prev := 0
	for _, tk := range p.All() {
		assert.False(t, seen[tk.ID], "duplicate id %d", tk.ID)
		seen[tk.ID] = true
		assert.Greater(t, tk.ID, prev, "insertion order follows id order")
		prev = tk.ID
	}
	assert.Len(t, seen, n)
}

func TestToggleCompletion(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())
	tk, err := p.Add(ctx, "Gym", task.Tuesday, task.PriorityLow)
	require.NoError(t, err)

	on, err := p.ToggleCompletion(ctx, tk.ID)
	require.NoError(t, err)
	assert.True(t, on.Completed)

	off, err := p.ToggleCompletion(ctx, tk.ID)
	require.NoError(t, err)
	assert.False(t, off.Completed)

	_, err = p.ToggleCompletion(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleCompletion_SaveFailureKeepsFlip(t *testing.T) {
	ctx := context.Background()
	store := newSwitchableKV()
	p := createTestPlanner(t, store, julyClock())
	tk, err := p.Add(ctx, "Gym", task.Tuesday, task.PriorityLow)
	require.NoError(t, err)

	store.setFailWrite(true)
	got, err := p.ToggleCompletion(ctx, tk.ID)
	assert.ErrorIs(t, err, persist.ErrWriteFailed)
	assert.True(t, got.Completed)

	stored, err := p.Get(tk.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())
	tk, err := p.Add(ctx, "Draft", task.Friday, task.PriorityMedium)
	require.NoError(t, err)

	renamed, err := p.Rename(ctx, tk.ID, "  Final draft  ")
	require.NoError(t, err)
	assert.Equal(t, "Final draft", renamed.Title)
	assert.Equal(t, tk.Date, renamed.Date)
	assert.Equal(t, tk.CreatedAt, renamed.CreatedAt)
}

func TestRename_EmptyTitleKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())
	tk, err := p.Add(ctx, "Draft", task.Friday, task.PriorityMedium)
	require.NoError(t, err)

	_, err = p.Rename(ctx, tk.ID, "")
	assert.ErrorIs(t, err, task.ErrEmptyTitle)

	stored, err := p.Get(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", stored.Title)
}

func TestRename_SaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newSwitchableKV()
	p := createTestPlanner(t, store, julyClock())
	tk, err := p.Add(ctx, "Draft", task.Friday, task.PriorityMedium)
	require.NoError(t, err)

	store.setFailWrite(true)
	got, err := p.Rename(ctx, tk.ID, "Final")
	assert.ErrorIs(t, err, persist.ErrWriteFailed)
	assert.Equal(t, "Draft", got.Title)

	stored, err := p.Get(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", stored.Title)
}

func TestRename_NotFound(t *testing.T) {
	p := createTestPlanner(t, kv.NewMemory(), julyClock())

	_, err := p.Rename(context.Background(), 42, "Anything")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())
	a, _ := p.Add(ctx, "a", task.Monday, task.PriorityLow)
	b, _ := p.Add(ctx, "b", task.Monday, task.PriorityLow)
	c, _ := p.Add(ctx, "c", task.Monday, task.PriorityLow)

	require.NoError(t, p.Remove(ctx, b.ID))
	assert.Equal(t, []int{a.ID, c.ID}, ids(p.All()))

	assert.ErrorIs(t, p.Remove(ctx, b.ID), ErrNotFound)
	_, err := p.Get(b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_SaveFailureKeepsRemoval(t *testing.T) {
	ctx := context.Background()
	store := newSwitchableKV()
	p := createTestPlanner(t, store, julyClock())
	a, _ := p.Add(ctx, "a", task.Monday, task.PriorityLow)

	store.setFailWrite(true)
	assert.ErrorIs(t, p.Remove(ctx, a.ID), persist.ErrWriteFailed)
	assert.Empty(t, p.All())
}

func TestLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	p := createTestPlanner(t, store, julyClock())

	_, err := p.Add(ctx, "one", task.Monday, task.PriorityHigh)
	require.NoError(t, err)
	two, err := p.Add(ctx, "two", task.Wednesday, task.PriorityLow)
	require.NoError(t, err)
	_, err = p.Add(ctx, "three", task.Sunday, task.PriorityMedium)
	require.NoError(t, err)
	_, err = p.ToggleCompletion(ctx, two.ID)
	require.NoError(t, err)
	require.NoError(t, p.Remove(ctx, 1))

	fresh := New(persist.NewAdapter(store, "", nil), julyClock(), nil)
	assert.Equal(t, LoadStatusLoaded, fresh.Load(ctx))
	assert.Equal(t, p.All(), fresh.All())
	assert.Equal(t, 4, fresh.Store().NextID(), "max(id)+1")
}

func TestLoad_NoSavedData(t *testing.T) {
	p := New(persist.NewAdapter(kv.NewMemory(), "", nil), julyClock(), nil)

	assert.Equal(t, LoadStatusNoSavedData, p.Load(context.Background()))
	assert.Empty(t, p.All())
	assert.Equal(t, 1, p.Store().NextID())
}

func TestLoad_CorruptBlob(t *testing.T) {
	for _, blob := range []string{"not json at all", `{"tasks":[]}`} {
		t.Run(blob, func(t *testing.T) {
			ctx := context.Background()
			store := kv.NewMemory()
			require.NoError(t, store.Set(ctx, persist.DefaultKey, []byte(blob)))

			p := New(persist.NewAdapter(store, "", nil), julyClock(), nil)
			assert.Equal(t, LoadStatusCorrupt, p.Load(ctx))
			assert.Empty(t, p.All())
			assert.Equal(t, 1, p.Store().NextID())

			tk, err := p.Add(ctx, "fresh start", task.Monday, task.PriorityLow)
			require.NoError(t, err)
			assert.Equal(t, 1, tk.ID)
		})
	}
}

func TestLoad_CorruptFileContainerRecovers(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "weekplan.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	open := func() *Planner {
		store, err := kv.OpenFile(path)
		require.NoError(t, err)
		return New(persist.NewAdapter(store, "", nil), julyClock(), nil)
	}

	p := open()
	assert.Equal(t, LoadStatusCorrupt, p.Load(ctx))

	added, err := p.Add(ctx, "After recovery", task.Monday, task.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, 1, added.ID)

	reloaded := open()
	require.Equal(t, LoadStatusLoaded, reloaded.Load(ctx))
	assert.Equal(t, []task.Task{added}, reloaded.All())

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	cleared := open()
	assert.Equal(t, LoadStatusCorrupt, cleared.Load(ctx))
	require.NoError(t, cleared.Clear(ctx))
	assert.Equal(t, LoadStatusNoSavedData, open().Load(ctx))
}

func TestLoad_ReplacesExistingState(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	p := createTestPlanner(t, store, julyClock())
	_, err := p.Add(ctx, "saved", task.Monday, task.PriorityLow)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, persist.DefaultKey))
	assert.Equal(t, LoadStatusNoSavedData, p.Load(ctx))
	assert.Empty(t, p.All())
	assert.Equal(t, 1, p.Store().NextID())
}

func TestLoad_DropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, persist.DefaultKey, []byte(`[
		{"id":3,"title":"first","day":"monday","date":"2025-07-28","priority":"low","completed":false,"createdAt":"2025-07-28"},
		{"id":3,"title":"again","day":"monday","date":"2025-07-28","priority":"low","completed":false,"createdAt":"2025-07-28"},
		{"id":7,"title":"later","day":"friday","date":"2025-08-01","priority":"high","completed":true,"createdAt":"2025-07-28"}
	]`)))

	p := New(persist.NewAdapter(store, "", nil), julyClock(), nil)
	assert.Equal(t, LoadStatusLoaded, p.Load(ctx))
	all := p.All()
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Title)
	assert.Equal(t, 8, p.Store().NextID())
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := newSwitchableKV()
	p := createTestPlanner(t, store, julyClock())
	_, _ = p.Add(ctx, "a", task.Monday, task.PriorityLow)
	_, _ = p.Add(ctx, "b", task.Monday, task.PriorityLow)

	require.NoError(t, p.Clear(ctx))
	assert.Empty(t, p.All())
	assert.Equal(t, 1, p.Store().NextID())
	_, err := store.Get(ctx, persist.DefaultKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestClear_FailureKeepsState(t *testing.T) {
	ctx := context.Background()
	store := newSwitchableKV()
	p := createTestPlanner(t, store, julyClock())
	_, _ = p.Add(ctx, "a", task.Monday, task.PriorityLow)

	store.setFailWrite(true)
	assert.ErrorIs(t, p.Clear(ctx), persist.ErrWriteFailed)
	assert.Len(t, p.All(), 1)
	assert.Equal(t, 2, p.Store().NextID())
}

func TestAll_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	p := createTestPlanner(t, kv.NewMemory(), julyClock())
	_, _ = p.Add(ctx, "a", task.Monday, task.PriorityLow)

	all := p.All()
	all[0].Title = "mutated"

	stored, err := p.Get(all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "a", stored.Title)
}

func TestLoadStatus_String(t *testing.T) {
	assert.Equal(t, "loaded", LoadStatusLoaded.String())
	assert.Equal(t, "no saved data", LoadStatusNoSavedData.String())
	assert.Equal(t, "corrupt", LoadStatusCorrupt.String())
	assert.Equal(t, "LoadStatus(9)", LoadStatus(9).String())
}

func TestIDSequence(t *testing.T) {
	s := NewIDSequence()
	assert.Equal(t, 1, s.Peek())
	assert.Equal(t, 1, s.Next())
	assert.Equal(t, 2, s.Next())

	at := NewIDSequenceAt(41)
	assert.Equal(t, 42, at.Next())

	at.Reset()
	assert.Equal(t, 1, at.Next())

	assert.Equal(t, 1, NewIDSequenceAt(-5).Next())
}

func ids(tasks []task.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
