package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/weekplan/internal/config"
	"github.com/roach88/weekplan/internal/task"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Force bool
}

// initResult is the payload of the init command.
type initResult struct {
	Home    string `json:"home"`
	Config  string `json:"config"`
	Written bool   `json:"written"`
	Backend string `json:"backend"`
	Storage string `json:"storage,omitempty"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the profile directory and default config",
		Long: `Create the profile directory, write a commented config.yaml and
open the configured storage so it exists before the first task is added.

An existing config.yaml is left alone unless --force is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config.yaml")
	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	home, err := config.ResolveHome(opts.Home)
	if err != nil {
		return out.Fail(err)
	}
	path, written, err := config.WriteDefault(home, opts.Force)
	if err != nil {
		return out.Fail(err)
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	result := initResult{
		Home:    home,
		Config:  path,
		Written: written,
		Backend: s.Config.Storage.Backend,
		Storage: s.Config.Storage.Path,
	}
	return s.Output.Render(result, func(w io.Writer) error {
		if written {
			fmt.Fprintf(w, "Wrote %s\n", path)
		} else {
			fmt.Fprintf(w, "Kept existing %s\n", path)
		}
		if result.Storage != "" {
			fmt.Fprintf(w, "Tasks are stored in %s (%s)\n", result.Storage, result.Backend)
		}
		return nil
	})
}

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	*RootOptions
	Yes bool
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "clear",
		Short:         "Delete every task of every week",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm deleting all tasks")
	return cmd
}

func runClear(opts *ClearOptions, cmd *cobra.Command) error {
	if !opts.Yes {
		return newFormatter(opts.RootOptions, cmd).Fail(usagef("refusing to delete all tasks without --yes"))
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	removed := len(s.Planner.All())
	if err := s.Planner.Clear(commandContext(cmd)); err != nil {
		return s.Output.Fail(err)
	}
	data := map[string]int{"removed": removed}
	return s.Output.Render(data, func(w io.Writer) error {
		fmt.Fprintf(w, "Deleted %d task(s)\n", removed)
		return nil
	})
}

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Week weekFlags
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Add a few sample tasks to an empty planner",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, cmd)
		},
	}

	opts.Week.register(cmd)
	return cmd
}

func runSeed(opts *SeedOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := opts.Week.apply(s.Planner); err != nil {
		return s.Output.Fail(err)
	}
	added, err := s.Planner.Seed(commandContext(cmd))
	if err != nil {
		return s.Output.Fail(err)
	}
	return s.Output.Render(added, func(w io.Writer) error {
		return renderAdded(w, added)
	})
}

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Week weekFlags
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Add the tasks listed in a YAML file",
		Long: `Add the tasks listed in a YAML file to the displayed week.

Every entry is checked first; if any is invalid nothing is added.
Priority defaults to medium.

  tasks:
    - title: Team meeting
      day: monday
      priority: high
    - title: Laundry
      day: sunday`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	opts.Week.register(cmd)
	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := opts.Week.apply(s.Planner); err != nil {
		return s.Output.Fail(err)
	}
	added, err := s.Planner.ImportYAML(commandContext(cmd), path)
	if err != nil {
		return s.Output.Fail(err)
	}
	return s.Output.Render(added, func(w io.Writer) error {
		return renderAdded(w, added)
	})
}

func renderAdded(w io.Writer, added []task.Task) error {
	for _, t := range added {
		if err := renderTask(w, "Added", t); err != nil {
			return err
		}
	}
	return nil
}
