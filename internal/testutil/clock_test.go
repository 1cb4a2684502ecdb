package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_Frozen(t *testing.T) {
	at := time.Date(2025, time.July, 28, 9, 30, 0, 0, time.Local)
	clock := NewFixedClock(at)

	assert.Equal(t, at, clock.Now())
	assert.Equal(t, at, clock.Now())
}

func TestFixedClock_NewFixedClockAtNoon(t *testing.T) {
	clock := NewFixedClockAt(2025, time.July, 28)
	now := clock.Now()

	assert.Equal(t, 2025, now.Year())
	assert.Equal(t, time.July, now.Month())
	assert.Equal(t, 28, now.Day())
	assert.Equal(t, 12, now.Hour())
}

func TestFixedClock_SetAndAdvance(t *testing.T) {
	clock := NewFixedClockAt(2025, time.July, 28)

	clock.Advance(2 * time.Hour)
	assert.Equal(t, 14, clock.Now().Hour())

	clock.AdvanceDays(7)
	assert.Equal(t, time.August, clock.Now().Month())
	assert.Equal(t, 4, clock.Now().Day())

	at := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.Local)
	clock.Set(at)
	assert.Equal(t, at, clock.Now())
}

func TestFixedClock_ThreadSafe(t *testing.T) {
	clock := NewFixedClockAt(2025, time.January, 1)
	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(time.Minute)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, 12*60+numGoroutines, clock.Now().Hour()*60+clock.Now().Minute())
}
