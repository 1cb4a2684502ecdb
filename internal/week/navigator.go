package week

import (
	"sync"
	"time"
)

// Clock supplies the current time. SystemClock is the production clock;
// tests use testutil.FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the local time zone.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Navigator holds the anchor of the displayed week.
//
// The anchor is always a Monday at midnight. Every transition returns the
// new anchor so callers can recompute their view from it.
//
// Thread-safety: all methods are safe for concurrent use.
type Navigator struct {
	mu     sync.Mutex
	clock  Clock
	anchor time.Time
}

// NewNavigator creates a navigator anchored on the current week.
// A nil clock means SystemClock.
func NewNavigator(clock Clock) *Navigator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Navigator{
		clock:  clock,
		anchor: MondayOf(clock.Now()),
	}
}

// Anchor returns the Monday of the displayed week.
func (n *Navigator) Anchor() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.anchor
}

// Previous moves the anchor back one week.
func (n *Navigator) Previous() time.Time {
	return n.shift(-1)
}

// Next moves the anchor forward one week.
func (n *Navigator) Next() time.Time {
	return n.shift(1)
}

// Today moves the anchor to the week containing the clock's current time.
func (n *Navigator) Today() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.anchor = MondayOf(n.clock.Now())
	return n.anchor
}

// Jump moves the anchor to the week containing t.
func (n *Navigator) Jump(t time.Time) time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.anchor = MondayOf(t)
	return n.anchor
}

// Offset applies Next (weeks > 0) or Previous (weeks < 0) |weeks| times.
func (n *Navigator) Offset(weeks int) time.Time {
	return n.shift(weeks)
}

func (n *Navigator) shift(weeks int) time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	y, m, d := n.anchor.Date()
	n.anchor = time.Date(y, m, d+weeks*Length, 0, 0, 0, 0, n.anchor.Location())
	return n.anchor
}
