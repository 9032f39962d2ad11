package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/store"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	filter string
	yes    bool

	// in and interactive default to stdin and a terminal check.
	in          io.Reader
	interactive func() bool
}

// SetInput sets the confirmation input and marks it interactive (for testing).
func (c *RmCmd) SetInput(r io.Reader) {
	c.in = r
	c.interactive = func() bool { return true }
}

// SetYes skips the confirmation prompt (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "todo rm [--filter <f>] [--yes] <n>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	registerFilterFlag(fs, &c.filter)
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}
	num, err := ParseTaskRef(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	filter, ok := parseFilterFlag(c.filter, errOut)
	if !ok {
		return exitcode.UserError
	}

	list, err := openList(ctx, st, filter)
	if err != nil {
		return reportStoreError(errOut, err)
	}
	defer list.Close()

	item, err := itemByNumber(list, num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	list.RequestDelete(item.ID)

	if !c.yes {
		if !c.isInteractive() {
			list.DismissDelete()
			fmt.Fprintln(errOut, "error: confirmation required (use --yes)")
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "Delete %q? [y/N] ", output.NormalizeName(item.Name))
		if !confirmed(c.input()) {
			list.DismissDelete()
			if !cfg.Quiet {
				fmt.Fprintln(out, "cancelled")
			}
			return exitcode.Success
		}
	}

	if err := list.Do(ctx, list.ConfirmDelete()); err != nil {
		return reportStoreError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func (c *RmCmd) input() io.Reader {
	if c.in != nil {
		return c.in
	}
	return os.Stdin
}

func (c *RmCmd) isInteractive() bool {
	if c.interactive != nil {
		return c.interactive()
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirmed reads one line and reports whether it is a yes.
func confirmed(r io.Reader) bool {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
