package testutil

// FixedSessionIDs hands out the same session id on every call, so JSON
// envelopes and log lines are byte-stable across test runs.
type FixedSessionIDs struct {
	id string
}

// NewFixedSessionIDs creates a generator returning id.
// If id is empty, Generate returns "test-session".
func NewFixedSessionIDs(id string) *FixedSessionIDs {
	if id == "" {
		id = "test-session"
	}
	return &FixedSessionIDs{id: id}
}

// Generate returns the fixed id.
func (g *FixedSessionIDs) Generate() string {
	return g.id
}
