package planner

import "sync/atomic"

// IDSequence hands out task ids.
//
// Ids are strictly increasing and never reissued, even after the task that
// held one is removed. Only Reset (clearing the whole store) starts over.
//
// Thread-safety: IDSequence is safe for concurrent use (atomic operations).
// The Store additionally draws ids under its own lock so that id assignment
// and the append that follows happen together.
type IDSequence struct {
	last atomic.Int64
}

// NewIDSequence creates a sequence whose first id is 1.
func NewIDSequence() *IDSequence {
	return &IDSequence{}
}

// NewIDSequenceAt creates a sequence that continues after last.
// Used on load, with last = max(existing ids).
func NewIDSequenceAt(last int) *IDSequence {
	s := &IDSequence{}
	if last > 0 {
		s.last.Store(int64(last))
	}
	return s
}

// Next returns the next id and advances the sequence.
func (s *IDSequence) Next() int {
	return int(s.last.Add(1))
}

// Peek returns the id Next would return, without advancing.
func (s *IDSequence) Peek() int {
	return int(s.last.Load()) + 1
}

// Reset makes the next id 1 again.
func (s *IDSequence) Reset() {
	s.last.Store(0)
}
