// Package firebase implements the store.Store interface using Cloud Firestore.
package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/golang/glog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"todo/internal/config"
	"todo/internal/store"
)

const (
	// APITimeout is the timeout for a single mutation.
	APITimeout = 10 * time.Second

	// EmulatorHostEnv points the client at a local Firestore emulator.
	EmulatorHostEnv = "FIRESTORE_EMULATOR_HOST"

	// OAuth scope for Cloud Firestore
	DatastoreScope = "https://www.googleapis.com/auth/datastore"
)

// Client implements store.Store using Cloud Firestore.
type Client struct {
	fs *firestore.Client
}

var (
	sharedMu sync.Mutex
	shared   *Client
)

// Shared returns the process-wide client, creating it on first use.
// Concurrent first calls still construct a single client. A failed
// construction is not remembered, so a later call may succeed.
func Shared(ctx context.Context, cfg *config.Config) (*Client, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared != nil {
		return shared, nil
	}
	c, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	shared = c
	return shared, nil
}

// CloseShared closes the process-wide client if one was created.
func CloseShared() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		return nil
	}
	err := shared.fs.Close()
	shared = nil
	return err
}

// New creates a new Firestore client for the configured project.
// Credentials come from the token saved by login, falling back to
// Application Default Credentials. The emulator needs neither.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.Firebase.Validate(); err != nil {
		return nil, err
	}

	opts, err := clientOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(ctx, cfg.Firebase.ProjectID, opts...)
}

// NewWithOptions creates a client with explicit client options (for testing).
func NewWithOptions(ctx context.Context, projectID string, opts ...option.ClientOption) (*Client, error) {
	fs, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	glog.V(1).Infof("[store]connected project=%s\n", projectID)
	return &Client{fs: fs}, nil
}

// clientOptions picks the credentials for the client.
func clientOptions(ctx context.Context, cfg *config.Config) ([]option.ClientOption, error) {
	if os.Getenv(EmulatorHostEnv) != "" {
		return nil, nil
	}
	if !cfg.HasOAuthClient() || !cfg.HasToken() {
		return nil, nil
	}

	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", config.ErrCredentials, config.OAuthClientFile, err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, DatastoreScope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", config.ErrCredentials, config.OAuthClientFile, err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", config.ErrCredentials, config.TokenFile, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v (run: todo login)", config.ErrCredentials, config.TokenFile, err)
	}

	// The client outlives the command context that created it.
	tokenSource := oauthConfig.TokenSource(context.WithoutCancel(ctx), &token)
	return []option.ClientOption{option.WithTokenSource(tokenSource)}, nil
}

// Close releases the client's connections.
func (c *Client) Close() error {
	return c.fs.Close()
}

// Create adds a document with a generated id.
func (c *Client) Create(ctx context.Context, collection string, fields store.Fields) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	ref, _, err := c.fs.Collection(collection).Add(ctx, toData(fields))
	if err != nil {
		return "", wrapError(err)
	}
	glog.V(1).Infof("[store]create %s/%s\n", collection, ref.ID)
	return ref.ID, nil
}

// Update merges fields into an existing document.
func (c *Client) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.fs.Collection(collection).Doc(id).Update(ctx, toUpdates(fields))
	if err != nil {
		return wrapError(err)
	}
	glog.V(1).Infof("[store]update %s/%s\n", collection, id)
	return nil
}

// Delete removes a document. Firestore does not fail on missing documents.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.fs.Collection(collection).Doc(id).Delete(ctx)
	if err != nil {
		return wrapError(err)
	}
	glog.V(1).Infof("[store]delete %s/%s\n", collection, id)
	return nil
}

// Subscribe starts a snapshot listener on its own goroutine.
// Cancelling ctx or calling the returned function ends it without an error callback.
func (c *Client) Subscribe(ctx context.Context, q store.Query, onSnapshot store.SnapshotFunc, onError store.ErrorFunc) store.Unsubscribe {
	ctx, cancel := context.WithCancel(ctx)

	dir := firestore.Asc
	if q.Direction == store.Desc {
		dir = firestore.Desc
	}
	it := c.fs.Collection(q.Collection).OrderBy(q.OrderBy, dir).Snapshots(ctx)

	go func() {
		// Stop must not run concurrently with Next.
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err == nil {
				var docs []*firestore.DocumentSnapshot
				docs, err = snap.Documents.GetAll()
				if err == nil {
					glog.V(2).Infof("[store]snapshot %s docs=%d\n", q.Collection, len(docs))
					onSnapshot(toDocuments(docs))
					continue
				}
			}
			if errors.Is(err, iterator.Done) || ctx.Err() != nil || status.Code(err) == codes.Canceled {
				glog.V(1).Infof("[store]subscription %s ended\n", q.Collection)
				return
			}
			glog.V(1).Infof("[store]subscription %s failed: %v\n", q.Collection, err)
			onError(wrapError(err))
			return
		}
	}()

	return store.Unsubscribe(cancel)
}

// toData converts fields to a Firestore document body.
func toData(fields store.Fields) map[string]any {
	data := make(map[string]any, len(fields))
	for k, v := range fields {
		data[k] = toValue(v)
	}
	return data
}

// toUpdates converts fields to field updates in key order.
func toUpdates(fields store.Fields) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		updates = append(updates, firestore.Update{Path: k, Value: toValue(fields[k])})
	}
	return updates
}

func toValue(v any) any {
	if store.IsServerTimestamp(v) {
		return firestore.ServerTimestamp
	}
	return v
}

func toDocuments(snaps []*firestore.DocumentSnapshot) []store.Document {
	docs := make([]store.Document, 0, len(snaps))
	for _, s := range snaps {
		docs = append(docs, store.Document{
			ID:     s.Ref.ID,
			Fields: store.Fields(s.Data()),
		})
	}
	return docs
}

// wrapError maps gRPC status codes onto the store sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", store.ErrNotFound, status.Convert(err).Message())
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w (run: todo login)", store.ErrPermission)
	case codes.Unavailable:
		return fmt.Errorf("%w: %s", store.ErrUnavailable, status.Convert(err).Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: request timed out", store.ErrUnavailable)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", store.ErrUnavailable)
	}
	return err
}
