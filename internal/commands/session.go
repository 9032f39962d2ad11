package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
	"todo/internal/tasklist"
)

// loadTimeout bounds the wait for the first snapshot in one-shot commands.
const loadTimeout = 15 * time.Second

// openList subscribes a controller and waits for the first snapshot.
// The caller must Close the returned controller.
func openList(ctx context.Context, st store.Store, filter tasklist.Filter) (*tasklist.Controller, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	c := tasklist.New(st)
	c.SetFilter(filter)

	events := make(chan tasklist.Event, 1)
	c.Subscribe(context.WithoutCancel(ctx), func(ev tasklist.Event) {
		// Only the first event matters here; later ones are dropped.
		select {
		case events <- ev:
		default:
		}
	})

	select {
	case ev := <-events:
		c.Apply(ev)
		if ev.Err != nil {
			c.Close()
			return nil, ev.Err
		}
		return c, nil
	case <-ctx.Done():
		c.Close()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out loading tasks", store.ErrUnavailable)
		}
		return nil, ctx.Err()
	}
}

// registerFilterFlag binds --filter and -f.
func registerFilterFlag(fs *flag.FlagSet, p *string) {
	fs.StringVar(p, "filter", "all", "")
	fs.StringVar(p, "f", "all", "")
}

// parseFilterFlag parses a --filter value, reporting a user error on failure.
func parseFilterFlag(value string, errOut io.Writer) (tasklist.Filter, bool) {
	f, err := tasklist.ParseFilter(value)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return f, false
	}
	return f, true
}

// reportStoreError prints a store failure and returns its exit code.
func reportStoreError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, store.ErrPermission), errors.Is(err, config.ErrNoProjectID):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
