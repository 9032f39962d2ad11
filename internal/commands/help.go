package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. The command list comes from the
// registry, so every registered command is described.
type HelpCmd struct {
	registry *Registry
}

// SetRegistry sets the registry to describe (for testing).
func (c *HelpCmd) SetRegistry(r *Registry) {
	c.registry = r
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help [command]" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	reg := c.registry
	if reg == nil {
		reg = DefaultRegistry
	}

	switch len(args) {
	case 0:
		writeHelp(out, reg)
		return exitcode.Success
	case 1:
		cmd, ok := reg.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		writeCommandHelp(out, cmd)
		return exitcode.Success
	default:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}
}

func writeHelp(out io.Writer, reg *Registry) {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  todo                 List all tasks")
	fmt.Fprintln(out, "  todo <command> [flags] [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range reg.All() {
		fmt.Fprintf(out, "  %-10s %s%s\n", cmd.Name(), cmd.Synopsis(), aliasNote(cmd))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage per command:")
	for _, cmd := range reg.All() {
		fmt.Fprintf(out, "  %s\n", cmd.Usage())
	}
	fmt.Fprint(out, helpFooter)
}

func writeCommandHelp(out io.Writer, cmd Command) {
	fmt.Fprintf(out, "Usage: %s\n\n", cmd.Usage())
	fmt.Fprintf(out, "%s%s\n", cmd.Synopsis(), aliasNote(cmd))
	fmt.Fprint(out, helpFooter)
}

func aliasNote(cmd Command) string {
	if len(cmd.Aliases()) == 0 {
		return ""
	}
	return " (alias: " + strings.Join(cmd.Aliases(), ", ") + ")"
}

const helpFooter = `
Filters: all, active, completed.
Task numbers refer to the newest-first listing under the same filter.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
