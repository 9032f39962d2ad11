package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
	"todo/internal/tasklist"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *ToggleCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between active and completed" }
func (c *ToggleCmd) Usage() string     { return "todo toggle [--filter <f>] <n...>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {
	registerFilterFlag(fs, &c.filter)
}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	nums, err := ParseTaskRefs(args)
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

	// Resolve every reference against the same snapshot before mutating.
	items := make([]tasklist.Item, 0, len(nums))
	for _, num := range nums {
		item, err := itemByNumber(list, num)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		items = append(items, item)
	}

	for _, item := range items {
		if err := list.Do(ctx, list.Toggle(item.ID)); err != nil {
			return reportStoreError(errOut, err)
		}
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
