package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/weekplan/internal/planner"
	"github.com/roach88/weekplan/internal/week"
)

// WeekOptions holds flags for the week and stats commands.
type WeekOptions struct {
	*RootOptions
	Week weekFlags
}

// NewWeekCommand creates the week command.
func NewWeekCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WeekOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the tasks of one week, day by day",
		Long: `Show the tasks of one week, Monday through Sunday.

Example:
  weekplan week
  weekplan week --offset -1
  weekplan week --date 2025-12-31`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeek(opts, cmd)
		},
	}

	opts.Week.register(cmd)
	return cmd
}

func runWeek(opts *WeekOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := opts.Week.apply(s.Planner); err != nil {
		return s.Output.Fail(err)
	}
	board := s.Planner.Board()
	return s.Output.Render(board, func(w io.Writer) error {
		return renderBoard(w, board)
	})
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WeekOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "stats",
		Short:         "Count the tasks of one week",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	opts.Week.register(cmd)
	return cmd
}

func runStats(opts *WeekOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := opts.Week.apply(s.Planner); err != nil {
		return s.Output.Fail(err)
	}
	stats := statsFor(s.Planner)
	return s.Output.Render(stats, func(w io.Writer) error {
		return renderStats(w, stats)
	})
}

func statsFor(p *planner.Planner) weekStats {
	anchor := p.Anchor()
	return weekStats{
		Week:  week.StorageKey(anchor),
		Label: week.RangeLabel(anchor),
		Stats: p.Statistics(),
	}
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List every task of every week",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	tasks := s.Planner.All()
	return s.Output.Render(tasks, func(w io.Writer) error {
		return renderList(w, tasks)
	})
}
