package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/weekplan/internal/task"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Week weekFlags
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <day> <priority> <title...>",
		Short: "Add a task to a day of the week",
		Long: `Add a task to a day of the displayed week.

The day resolves to a concrete date in the current week, or in the week
chosen with --offset or --date. The task stays on that date forever.

Example:
  weekplan add monday high Team meeting
  weekplan add friday low --offset 1 Book flights`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, args, cmd)
		},
	}

	opts.Week.register(cmd)
	return cmd
}

func runAdd(opts *AddOptions, args []string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := opts.Week.apply(s.Planner); err != nil {
		return s.Output.Fail(err)
	}

	t, err := s.Planner.Add(commandContext(cmd),
		strings.Join(args[2:], " "),
		task.Day(strings.ToLower(args[0])),
		task.Priority(strings.ToLower(args[1])))
	if err != nil {
		return s.Output.Fail(err)
	}
	return s.Output.Render(t, func(w io.Writer) error {
		return renderTask(w, "Added", t)
	})
}

// NewToggleCommand creates the toggle command.
func NewToggleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "toggle <id>",
		Short:         "Mark a task done, or not done again",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(rootOpts, args[0], cmd)
		},
	}
}

func runToggle(opts *RootOptions, rawID string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := parseID(rawID)
	if err != nil {
		return s.Output.Fail(err)
	}
	t, err := s.Planner.ToggleCompletion(commandContext(cmd), id)
	if err != nil {
		return s.Output.Fail(err)
	}
	verb := "Reopened"
	if t.Completed {
		verb = "Completed"
	}
	return s.Output.Render(t, func(w io.Writer) error {
		return renderTask(w, verb, t)
	})
}

// NewRenameCommand creates the rename command.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title...>",
		Short: "Change a task's title",
		Long: `Change a task's title. Day, date and priority stay as they are.

Example:
  weekplan rename 3 Quarterly review`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(rootOpts, args, cmd)
		},
	}
}

func runRename(opts *RootOptions, args []string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := parseID(args[0])
	if err != nil {
		return s.Output.Fail(err)
	}
	t, err := s.Planner.Rename(commandContext(cmd), id, strings.Join(args[1:], " "))
	if err != nil {
		return s.Output.Fail(err)
	}
	return s.Output.Render(t, func(w io.Writer) error {
		return renderTask(w, "Renamed", t)
	})
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <id>",
		Aliases:       []string{"rm"},
		Short:         "Delete a task",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(rootOpts, args[0], cmd)
		},
	}
}

func runRemove(opts *RootOptions, rawID string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := parseID(rawID)
	if err != nil {
		return s.Output.Fail(err)
	}
	t, err := s.Planner.Get(id)
	if err != nil {
		return s.Output.Fail(err)
	}
	if err := s.Planner.Remove(commandContext(cmd), id); err != nil {
		return s.Output.Fail(err)
	}
	return s.Output.Render(t, func(w io.Writer) error {
		return renderTask(w, "Removed", t)
	})
}

// parseID reads a positive task id.
func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if err != nil || id <= 0 {
		return 0, usagef("invalid task id %q", raw)
	}
	return id, nil
}
