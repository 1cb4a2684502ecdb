package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/weekplan/internal/planner"
	"github.com/roach88/weekplan/internal/task"
)

const shellPrompt = "weekplan> "

const shellHelp = `Commands:
  week                          show the displayed week
  next | prev | today           change the displayed week
  offset <n>                    move n weeks (negative is earlier)
  add <day> <priority> <title>  add a task to the displayed week
  toggle <id>                   mark done / not done
  rename <id> <title>           change a title
  remove <id>                   delete a task (asks first)
  stats                         count the displayed week
  list                          every task of every week
  seed                          add sample tasks to an empty planner
  clear                         delete everything (asks first)
  help                          this text
  quit                          leave`

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Work with the planner interactively, one command per line",
		Long: `Start a line-oriented session. The displayed week is kept between
commands, so "next" followed by "add monday low Dentist" adds to next week.

Type "help" for the command list.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(rootOpts, cmd)
		},
	}
}

func runShell(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	sh := &shell{
		planner: s.Planner,
		out:     s.Output,
		in:      bufio.NewScanner(cmd.InOrStdin()),
	}
	return sh.run(commandContext(cmd))
}

// shell reads commands from in until quit or EOF. Command errors are
// reported and the loop continues.
type shell struct {
	planner *planner.Planner
	out     *OutputFormatter
	in      *bufio.Scanner
}

func (sh *shell) run(ctx context.Context) error {
	sh.prompt()
	for sh.in.Scan() {
		line := strings.TrimSpace(sh.in.Text())
		if line != "" {
			quit, err := sh.exec(ctx, line)
			if err != nil {
				_ = sh.out.Fail(err)
			}
			if quit {
				return nil
			}
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		sh.prompt()
	}
	return sh.in.Err()
}

func (sh *shell) prompt() {
	if sh.out.Format != "json" {
		fmt.Fprint(sh.out.Writer, shellPrompt)
	}
}

// exec runs one command line. It reports whether the shell should stop.
func (sh *shell) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]
	p := sh.planner

	switch name {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(sh.out.Writer, shellHelp)
		return false, nil
	case "week", "w":
		return false, sh.showWeek()
	case "next", "n":
		p.Next()
		return false, sh.showWeek()
	case "prev", "previous", "p":
		p.Previous()
		return false, sh.showWeek()
	case "today", "t":
		p.Today()
		return false, sh.showWeek()
	case "offset":
		if len(args) != 1 {
			return false, usagef("usage: offset <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, usagef("invalid offset %q", args[0])
		}
		p.Offset(n)
		return false, sh.showWeek()
	case "add", "a":
		if len(args) < 3 {
			return false, usagef("usage: add <day> <priority> <title>")
		}
		t, err := p.Add(ctx, strings.Join(args[2:], " "), task.Day(strings.ToLower(args[0])), task.Priority(strings.ToLower(args[1])))
		if err != nil {
			return false, err
		}
		return false, sh.task("Added", t)
	case "toggle", "x":
		id, err := oneID(args, "toggle")
		if err != nil {
			return false, err
		}
		t, err := p.ToggleCompletion(ctx, id)
		if err != nil {
			return false, err
		}
		verb := "Reopened"
		if t.Completed {
			verb = "Completed"
		}
		return false, sh.task(verb, t)
	case "rename":
		if len(args) < 2 {
			return false, usagef("usage: rename <id> <title>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		t, err := p.Rename(ctx, id, strings.Join(args[1:], " "))
		if err != nil {
			return false, err
		}
		return false, sh.task("Renamed", t)
	case "remove", "rm", "d":
		id, err := oneID(args, "remove")
		if err != nil {
			return false, err
		}
		t, err := p.Get(id)
		if err != nil {
			return false, err
		}
		if !sh.confirm(fmt.Sprintf("Remove #%d %q?", t.ID, t.Title)) {
			return false, nil
		}
		if err := p.Remove(ctx, id); err != nil {
			return false, err
		}
		return false, sh.task("Removed", t)
	case "stats":
		stats := statsFor(p)
		return false, sh.out.Render(stats, func(w io.Writer) error { return renderStats(w, stats) })
	case "list", "ls":
		tasks := p.All()
		return false, sh.out.Render(tasks, func(w io.Writer) error { return renderList(w, tasks) })
	case "seed":
		added, err := p.Seed(ctx)
		if err != nil {
			return false, err
		}
		return false, sh.out.Render(added, func(w io.Writer) error { return renderAdded(w, added) })
	case "clear":
		if !sh.confirm("Delete every task of every week?") {
			return false, nil
		}
		if err := p.Clear(ctx); err != nil {
			return false, err
		}
		return false, sh.out.Success("All tasks deleted")
	default:
		return false, usagef("unknown command %q (try \"help\")", name)
	}
}

func (sh *shell) showWeek() error {
	board := sh.planner.Board()
	return sh.out.Render(board, func(w io.Writer) error { return renderBoard(w, board) })
}

func (sh *shell) task(verb string, t task.Task) error {
	return sh.out.Render(t, func(w io.Writer) error { return renderTask(w, verb, t) })
}

// confirm asks a yes/no question on the next input line. Anything but y/yes
// is a no.
func (sh *shell) confirm(question string) bool {
	fmt.Fprintf(sh.out.GetErrWriter(), "%s [y/N] ", question)
	if !sh.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sh.in.Text()))
	return answer == "y" || answer == "yes"
}

func oneID(args []string, command string) (int, error) {
	if len(args) != 1 {
		return 0, usagef("usage: %s <id>", command)
	}
	return parseID(args[0])
}
