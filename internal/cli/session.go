package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/weekplan/internal/config"
	"github.com/roach88/weekplan/internal/kv"
	"github.com/roach88/weekplan/internal/persist"
	"github.com/roach88/weekplan/internal/planner"
	"github.com/roach88/weekplan/internal/week"
)

// session is one command invocation's view of a profile: its config,
// logger, open storage and loaded planner.
type session struct {
	ID      string
	Config  *config.Config
	Logger  *slog.Logger
	Planner *planner.Planner
	Output  *OutputFormatter

	store kv.KV
}

// newFormatter builds the OutputFormatter for cmd from the global flags.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openSession loads the profile config and restores the planner.
// Failures are reported through the formatter; the returned error is an
// ExitError.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	out := newFormatter(opts, cmd)

	id := opts.sessionIDs().Generate()
	out.Session = id

	home, err := config.ResolveHome(opts.Home)
	if err != nil {
		return nil, out.Fail(err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		return nil, out.Fail(err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg, opts.Verbose).With("session", id)
	slog.SetDefault(logger)

	backend, err := cfg.Backend()
	if err != nil {
		return nil, out.Fail(fmt.Errorf("%w: %v", config.ErrInvalid, err))
	}
	logger.Debug("opening storage", "backend", backend, "path", cfg.Storage.Path)
	store, err := kv.Open(backend, cfg.Storage.Path)
	if err != nil {
		return nil, out.Fail(&storageError{err: err})
	}

	clock := opts.Clock
	if clock == nil {
		clock = week.SystemClock{}
	}
	adapter := persist.NewAdapter(store, cfg.Storage.Key, logger)
	p := planner.New(adapter, clock, logger)
	status := p.Load(commandContext(cmd))
	if status == planner.LoadStatusCorrupt {
		out.VerboseLog("Saved tasks under %q were unreadable; starting with an empty list", adapter.Key())
	}

	return &session{
		ID:      id,
		Config:  cfg,
		Logger:  logger,
		Planner: p,
		Output:  out,
		store:   store,
	}, nil
}

// Close releases the storage backend.
func (s *session) Close() {
	if err := kv.Close(s.store); err != nil {
		s.Logger.Error("error closing storage", "error", err)
	}
}

// newLogger builds the process logger. --verbose forces debug.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// SessionIDGenerator names one CLI invocation in logs and JSON output.
type SessionIDGenerator interface {
	Generate() string
}

// UUIDv7SessionIDs generates time-ordered ids, so log lines from consecutive
// invocations sort together.
type UUIDv7SessionIDs struct{}

// Generate returns a new UUIDv7, falling back to a random UUID.
func (UUIDv7SessionIDs) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (o *RootOptions) sessionIDs() SessionIDGenerator {
	if o.SessionIDs == nil {
		return UUIDv7SessionIDs{}
	}
	return o.SessionIDs
}

// commandContext returns cmd's context, or Background when run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// weekFlags selects the displayed week for a command.
type weekFlags struct {
	Offset int
	Date   string
}

func (f *weekFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "weeks relative to the current one (negative is earlier)")
	cmd.Flags().StringVar(&f.Date, "date", "", "any date (YYYY-MM-DD) inside the week to show")
}

// apply moves p to the selected week: first --date, then --offset from there.
func (f *weekFlags) apply(p *planner.Planner) error {
	if f.Date != "" {
		t, err := week.ParseStorageKey(f.Date, time.Local)
		if err != nil {
			return usagef("invalid --date %q: want YYYY-MM-DD", f.Date)
		}
		p.Jump(t)
	}
	if f.Offset != 0 {
		p.Offset(f.Offset)
	}
	return nil
}
