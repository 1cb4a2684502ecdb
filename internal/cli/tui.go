package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/weekplan/internal/tui"
)

// TUIOptions holds flags for the tui command.
type TUIOptions struct {
	*RootOptions
	Week weekFlags
}

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TUIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive weekly board",
		Long: `Open the full-screen weekly board.

Keys: ←/→ change week, t today, ↑/↓ select, space toggle, a add,
e rename, d delete (asks y/n), q quit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, cmd)
		},
	}

	opts.Week.register(cmd)
	return cmd
}

func runTUI(opts *TUIOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := opts.Week.apply(s.Planner); err != nil {
		return s.Output.Fail(err)
	}
	s.Logger.Debug("starting board")
	if err := tui.Run(commandContext(cmd), s.Planner); err != nil {
		return WrapExitError(ExitCommandError, "board failed", err)
	}
	return nil
}
