package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when the store cannot be reached.
	ErrUnavailable = errors.New("store unavailable")

	// ErrPermission is returned when the credentials are missing, expired or insufficient.
	ErrPermission = errors.New("permission denied")
)

// SnapshotFunc receives the entire ordered result set of a live query.
type SnapshotFunc func(docs []Document)

// ErrorFunc receives a terminal subscription error.
type ErrorFunc func(err error)

// Unsubscribe ends a live query. It is safe to call more than once.
type Unsubscribe func()

// Store is the remote document store.
// Commands and the controller never import a store SDK directly.
type Store interface {
	// Create adds a document with a fresh id and returns the id.
	// Fields set to ServerTimestamp receive the commit time.
	Create(ctx context.Context, collection string, fields Fields) (string, error)

	// Update merges fields into an existing document.
	// Returns an error wrapping ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, fields Fields) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Subscribe registers a live query. onSnapshot is called with the full
	// ordered result set after every change; onError is called at most once,
	// after which no further snapshots are delivered. Callbacks run on a
	// goroutine owned by the store.
	Subscribe(ctx context.Context, q Query, onSnapshot SnapshotFunc, onError ErrorFunc) Unsubscribe
}
