package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/roach88/weekplan/internal/kv"
	"github.com/roach88/weekplan/internal/persist"
	"github.com/roach88/weekplan/internal/testutil"
)

var errDisk = errors.New("disk full")

// switchableKV is a Memory store whose writes can be made to fail.
type switchableKV struct {
	*kv.Memory
	mu        sync.Mutex
	failWrite bool
	writes    int
}

func newSwitchableKV() *switchableKV {
	return &switchableKV{Memory: kv.NewMemory()}
}

func (s *switchableKV) setFailWrite(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = fail
}

func (s *switchableKV) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.failWrite
	s.writes++
	s.mu.Unlock()
	if fail {
		return errDisk
	}
	return s.Memory.Set(ctx, key, value)
}

func (s *switchableKV) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	fail := s.failWrite
	s.mu.Unlock()
	if fail {
		return errDisk
	}
	return s.Memory.Remove(ctx, key)
}

// julyClock is frozen on Monday 2025-07-28.
func julyClock() *testutil.FixedClock {
	return testutil.NewFixedClockAt(2025, time.July, 28)
}

// createTestPlanner builds a planner over store, loads it and returns both.
func createTestPlanner(t *testing.T, store kv.KV, clock *testutil.FixedClock) *Planner {
	t.Helper()
	p := New(persist.NewAdapter(store, "", nil), clock, nil)
	p.Load(context.Background())
	return p
}
