package week

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/weekplan/internal/testutil"
)

func TestNavigator_StartsOnCurrentWeek(t *testing.T) {
	clock := testutil.NewFixedClockAt(2025, time.July, 31)
	nav := NewNavigator(clock)

	assert.Equal(t, "2025-07-28", StorageKey(nav.Anchor()))
	assert.True(t, IsMonday(nav.Anchor()))
}

func TestNavigator_NilClockUsesSystemClock(t *testing.T) {
	nav := NewNavigator(nil)
	assert.Equal(t, MondayOf(time.Now()), nav.Anchor())
}

func TestNavigator_PreviousNextToday(t *testing.T) {
	clock := testutil.NewFixedClockAt(2025, time.July, 28)
	nav := NewNavigator(clock)

	assert.Equal(t, "2025-08-04", StorageKey(nav.Next()))
	assert.Equal(t, "2025-07-28", StorageKey(nav.Previous()))
	assert.Equal(t, "2025-07-21", StorageKey(nav.Previous()))
	assert.Equal(t, "2025-07-21", StorageKey(nav.Anchor()))

	assert.Equal(t, "2025-07-28", StorageKey(nav.Today()))
}

func TestNavigator_TodayFollowsClock(t *testing.T) {
	clock := testutil.NewFixedClockAt(2025, time.July, 28)
	nav := NewNavigator(clock)

	clock.AdvanceDays(13) // Sunday 2025-08-10
	assert.Equal(t, "2025-07-28", StorageKey(nav.Anchor()))
	assert.Equal(t, "2025-08-04", StorageKey(nav.Today()))
}

func TestNavigator_JumpNormalizesToMonday(t *testing.T) {
	nav := NewNavigator(testutil.NewFixedClockAt(2025, time.July, 28))

	got := nav.Jump(time.Date(2026, time.January, 1, 18, 0, 0, 0, time.Local))
	assert.Equal(t, "2025-12-29", StorageKey(got))
	assert.True(t, IsMonday(nav.Anchor()))
}

func TestNavigator_Offset(t *testing.T) {
	nav := NewNavigator(testutil.NewFixedClockAt(2025, time.July, 28))

	assert.Equal(t, "2025-08-18", StorageKey(nav.Offset(3)))
	assert.Equal(t, "2025-07-21", StorageKey(nav.Offset(-4)))
	assert.Equal(t, "2025-07-21", StorageKey(nav.Offset(0)))
}

func TestNavigator_AlwaysMondayAcrossManySteps(t *testing.T) {
	nav := NewNavigator(testutil.NewFixedClockAt(2025, time.March, 5))

	for i := 0; i < 80; i++ {
		a := nav.Next()
		assert.Equal(t, time.Monday, a.Weekday())
		assert.Equal(t, 0, a.Hour())
	}
	for i := 0; i < 160; i++ {
		a := nav.Previous()
		assert.Equal(t, time.Monday, a.Weekday())
		assert.Equal(t, 0, a.Hour())
	}
}

func TestNavigator_ConcurrentSteps(t *testing.T) {
	nav := NewNavigator(testutil.NewFixedClockAt(2025, time.July, 28))
	const n = 40

	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() { defer wg.Done(); nav.Next() }()
		go func() { defer wg.Done(); nav.Previous() }()
	}
	wg.Wait()

	assert.Equal(t, "2025-07-28", StorageKey(nav.Anchor()))
}
