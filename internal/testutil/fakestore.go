// Package testutil provides testing utilities.
package testutil

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"todo/internal/store"
)

// Epoch is the timestamp assigned to the first ServerTimestamp write.
// Each later write is one second newer.
var Epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeSub struct {
	query      store.Query
	onSnapshot store.SnapshotFunc
	onError    store.ErrorFunc
	active     bool
}

// FakeStore is an in-memory implementation of store.Store with live queries.
// Snapshots are delivered synchronously on the goroutine that made the change.
type FakeStore struct {
	mu    sync.Mutex
	docs  map[string]map[string]store.Fields // collection -> id -> fields
	subs  []*fakeSub
	ticks int

	// Error injection for testing
	CreateErr    error
	UpdateErr    error
	DeleteErr    error
	SubscribeErr error // delivered to onError instead of the first snapshot

	// Calls counts store calls by method name.
	Calls map[string]int
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		docs:  make(map[string]map[string]store.Fields),
		Calls: make(map[string]int),
	}
}

// Seed adds a document without notifying subscribers.
func (f *FakeStore) Seed(collection, id string, fields store.Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collection(collection)[id] = f.resolve(fields)
}

// Get returns a copy of a document's fields.
func (f *FakeStore) Get(collection, id string) (store.Fields, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields, ok := f.docs[collection][id]
	if !ok {
		return nil, false
	}
	return maps.Clone(fields), true
}

// Count returns the number of documents in a collection.
func (f *FakeStore) Count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs[collection])
}

// ActiveSubscriptions returns the number of live queries not yet ended.
func (f *FakeStore) ActiveSubscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.subs {
		if s.active {
			n++
		}
	}
	return n
}

// Fail ends every active subscription with err.
func (f *FakeStore) Fail(err error) {
	f.mu.Lock()
	var ended []*fakeSub
	for _, s := range f.subs {
		if s.active {
			s.active = false
			ended = append(ended, s)
		}
	}
	f.mu.Unlock()

	for _, s := range ended {
		s.onError(err)
	}
}

// Create implements store.Store.
func (f *FakeStore) Create(ctx context.Context, collection string, fields store.Fields) (string, error) {
	f.mu.Lock()
	f.Calls["Create"]++
	if f.CreateErr != nil {
		f.mu.Unlock()
		return "", f.CreateErr
	}
	id := ulid.Make().String()
	f.collection(collection)[id] = f.resolve(fields)
	f.mu.Unlock()

	f.notify(collection)
	return id, nil
}

// Update implements store.Store.
func (f *FakeStore) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	f.mu.Lock()
	f.Calls["Update"]++
	if f.UpdateErr != nil {
		f.mu.Unlock()
		return f.UpdateErr
	}
	doc, ok := f.docs[collection][id]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s/%s", store.ErrNotFound, collection, id)
	}
	maps.Copy(doc, f.resolve(fields))
	f.mu.Unlock()

	f.notify(collection)
	return nil
}

// Delete implements store.Store.
func (f *FakeStore) Delete(ctx context.Context, collection, id string) error {
	f.mu.Lock()
	f.Calls["Delete"]++
	if f.DeleteErr != nil {
		f.mu.Unlock()
		return f.DeleteErr
	}
	if _, ok := f.docs[collection][id]; !ok {
		f.mu.Unlock()
		return nil
	}
	delete(f.docs[collection], id)
	f.mu.Unlock()

	f.notify(collection)
	return nil
}

// Subscribe implements store.Store. The initial snapshot is delivered before it returns.
func (f *FakeStore) Subscribe(ctx context.Context, q store.Query, onSnapshot store.SnapshotFunc, onError store.ErrorFunc) store.Unsubscribe {
	f.mu.Lock()
	f.Calls["Subscribe"]++
	sub := &fakeSub{query: q, onSnapshot: onSnapshot, onError: onError, active: true}
	f.subs = append(f.subs, sub)
	subErr := f.SubscribeErr
	if subErr != nil {
		sub.active = false
	}
	docs := f.snapshot(q)
	f.mu.Unlock()

	if subErr != nil {
		onError(subErr)
	} else {
		onSnapshot(docs)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.Calls["Unsubscribe"]++
			sub.active = false
		})
	}
}

// notify delivers a fresh snapshot to every active subscription on collection.
func (f *FakeStore) notify(collection string) {
	type delivery struct {
		sub  *fakeSub
		docs []store.Document
	}

	f.mu.Lock()
	var pending []delivery
	for _, s := range f.subs {
		if s.active && s.query.Collection == collection {
			pending = append(pending, delivery{sub: s, docs: f.snapshot(s.query)})
		}
	}
	f.mu.Unlock()

	for _, d := range pending {
		d.sub.onSnapshot(d.docs)
	}
}

// snapshot returns the ordered result set of q. Caller holds f.mu.
func (f *FakeStore) snapshot(q store.Query) []store.Document {
	docs := make([]store.Document, 0, len(f.docs[q.Collection]))
	for id, fields := range f.docs[q.Collection] {
		docs = append(docs, store.Document{ID: id, Fields: maps.Clone(fields)})
	}
	slices.SortFunc(docs, func(a, b store.Document) int {
		c := compareValues(a.Fields[q.OrderBy], b.Fields[q.OrderBy])
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if q.Direction == store.Desc {
			return -c
		}
		return c
	})
	return docs
}

// resolve copies fields, replacing ServerTimestamp with the next tick. Caller holds f.mu.
func (f *FakeStore) resolve(fields store.Fields) store.Fields {
	out := make(store.Fields, len(fields))
	for k, v := range fields {
		if store.IsServerTimestamp(v) {
			v = Epoch.Add(time.Duration(f.ticks) * time.Second)
			f.ticks++
		}
		out[k] = v
	}
	return out
}

// collection returns the documents of a collection, creating it if needed. Caller holds f.mu.
func (f *FakeStore) collection(name string) map[string]store.Fields {
	c, ok := f.docs[name]
	if !ok {
		c = make(map[string]store.Fields)
		f.docs[name] = c
	}
	return c
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	case string:
		bv, _ := b.(string)
		return cmp.Compare(av, bv)
	case int:
		bv, _ := b.(int)
		return cmp.Compare(av, bv)
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	}
	return 0
}
