package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/store"
	"todo/internal/tasklist"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command: print every snapshot until interrupted.
type WatchCmd struct {
	filter string
}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Print the list on every change" }
func (c *WatchCmd) Usage() string     { return "todo watch [--filter all|active|completed]" }
func (c *WatchCmd) NeedsStore() bool  { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	registerFilterFlag(fs, &c.filter)
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	filter, ok := parseFilterFlag(c.filter, errOut)
	if !ok {
		return exitcode.UserError
	}

	list := tasklist.New(st)
	list.SetFilter(filter)

	events := make(chan tasklist.Event, 16)
	list.Subscribe(ctx, func(ev tasklist.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})
	defer list.Close()

	for {
		select {
		case <-ctx.Done():
			return exitcode.Success
		case ev := <-events:
			list.Apply(ev)
			if ev.Err != nil {
				return reportStoreError(errOut, ev.Err)
			}
			fmt.Fprintln(out, output.Separator)
			output.FormatItems(out, list, cfg.Quiet)
		}
	}
}
