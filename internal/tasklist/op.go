package tasklist

import (
	"context"

	"todo/internal/store"
)

// OpKind names a mutation.
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpToggle OpKind = "toggle"
	OpRename OpKind = "rename"
	OpDelete OpKind = "delete"
)

// Op is a pending store mutation produced by a controller intent.
// The store call and the local follow-up are split so the call can run off
// the owner goroutine: Controller.Run performs the call, Controller.Complete
// applies the follow-up.
type Op struct {
	Kind OpKind
	ID   string // target item, empty for add

	run  func(ctx context.Context, s store.Store) error
	done func(c *Controller)
}
