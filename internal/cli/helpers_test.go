package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/weekplan/internal/config"
	"github.com/roach88/weekplan/internal/testutil"
)

// testEnv is an isolated profile directory with a frozen clock.
type testEnv struct {
	home  string
	clock *testutil.FixedClock
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// newTestEnv creates a profile on Monday 2025-07-28 with WEEKPLAN_*
// overrides cleared.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{config.EnvHome, config.EnvBackend, config.EnvStorageKey, config.EnvLogLevel} {
		t.Setenv(key, "")
	}
	return &testEnv{
		home:  t.TempDir(),
		clock: testutil.NewFixedClockAt(2025, time.July, 28),
	}
}

func (e *testEnv) run(t *testing.T, args ...string) cliResult {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *testEnv) runWithInput(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	opts := &RootOptions{
		Clock:      e.clock,
		SessionIDs: testutil.NewFixedSessionIDs(""),
	}
	cmd := newRootCommand(opts)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--home", e.home}, args...))

	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// mustRun runs args and fails the test on error.
func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	res := e.run(t, args...)
	if res.err != nil {
		t.Fatalf("weekplan %s: %v\nstdout:\n%s\nstderr:\n%s", strings.Join(args, " "), res.err, res.stdout, res.stderr)
	}
	return res.stdout
}

func assertGolden(t *testing.T, name string, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}
