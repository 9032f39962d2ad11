package tasklist

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/golang/glog"

	"todo/internal/store"
)

// Event is one delivery of the live query: a snapshot, or a terminal error.
type Event struct {
	Items []Item
	Err   error
}

// Controller owns the view state of the list.
//
// A Controller is not safe for concurrent use. Store callbacks arrive on the
// store's goroutine; Subscribe hands them to a post function and the owner
// must feed each Event back through Apply on its own goroutine.
type Controller struct {
	store store.Store

	items         []Item
	filter        Filter
	input         string
	editing       *Editing
	pendingDelete string
	loading       bool
	err           error

	unsubscribe store.Unsubscribe
}

// New creates a controller over the given store. Loading is true until the
// first event is applied.
func New(s store.Store) *Controller {
	return &Controller{
		store:   s,
		loading: true,
	}
}

// Subscribe registers the live query. Each snapshot or error is converted to
// an Event and passed to post.
func (c *Controller) Subscribe(ctx context.Context, post func(Event)) {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.unsubscribe = c.store.Subscribe(ctx, Query,
		func(docs []store.Document) {
			post(Event{Items: itemsFromDocuments(docs)})
		},
		func(err error) {
			post(Event{Err: err})
		},
	)
}

// Close ends the live query. It is safe to call more than once.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Apply reconciles local state with an event. A snapshot replaces the
// collection outright; the last snapshot applied wins.
func (c *Controller) Apply(ev Event) {
	c.loading = false

	if ev.Err != nil {
		glog.Errorf("[tasklist]subscription error: %v\n", ev.Err)
		c.err = ev.Err
		return
	}

	c.items = ev.Items

	if c.editing != nil && !c.has(c.editing.ID) {
		c.editing = nil
	}
	if c.pendingDelete != "" && !c.has(c.pendingDelete) {
		c.pendingDelete = ""
	}
}

// Items returns a copy of the whole collection in store order.
func (c *Controller) Items() []Item {
	return slices.Clone(c.items)
}

// Item returns the item with the given id.
func (c *Controller) Item(id string) (Item, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func (c *Controller) has(id string) bool {
	_, ok := c.Item(id)
	return ok
}

// Filter returns the active filter.
func (c *Controller) Filter() Filter {
	return c.filter
}

// SetFilter changes the active filter. It never touches the store.
func (c *Controller) SetFilter(f Filter) {
	c.filter = f
}

// Filtered returns the items visible under the active filter.
func (c *Controller) Filtered() []Item {
	return c.filter.Apply(c.items)
}

// Counts returns the number of visible items and the size of the collection.
func (c *Controller) Counts() (visible, total int) {
	return len(c.Filtered()), len(c.items)
}

// Footer returns the count line, or "" when the collection is empty.
func (c *Controller) Footer() string {
	visible, total := c.Counts()
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%d of %d tasks visible.", visible, total)
}

// Loading reports whether no event has been applied yet.
func (c *Controller) Loading() bool {
	return c.loading
}

// Err returns the last subscription or mutation error, if any.
func (c *Controller) Err() error {
	return c.err
}

// ClearErr forgets the last error.
func (c *Controller) ClearErr() {
	c.err = nil
}

// Input returns the text of the new-item field.
func (c *Controller) Input() string {
	return c.input
}

// SetInput sets the text of the new-item field.
func (c *Controller) SetInput(s string) {
	c.input = s
}

// Editing returns the in-progress edit, if any.
func (c *Controller) Editing() (Editing, bool) {
	if c.editing == nil {
		return Editing{}, false
	}
	return *c.editing, true
}

// StartEdit puts the item in the edit slot with its current name as draft.
// An edit already in progress is discarded.
func (c *Controller) StartEdit(id string) bool {
	item, ok := c.Item(id)
	if !ok {
		return false
	}
	c.editing = &Editing{ID: id, Draft: item.Name}
	return true
}

// SetDraft changes the draft text of the edit in progress.
func (c *Controller) SetDraft(text string) {
	if c.editing != nil {
		c.editing.Draft = text
	}
}

// CancelEdit empties the edit slot, discarding the draft.
func (c *Controller) CancelEdit() {
	c.editing = nil
}

// PendingDelete returns the id awaiting delete confirmation, if any.
func (c *Controller) PendingDelete() (string, bool) {
	return c.pendingDelete, c.pendingDelete != ""
}

// RequestDelete asks for confirmation before deleting the item.
func (c *Controller) RequestDelete(id string) bool {
	if !c.has(id) {
		return false
	}
	c.pendingDelete = id
	return true
}

// DismissDelete drops the pending deletion without side effects.
func (c *Controller) DismissDelete() {
	c.pendingDelete = ""
}

// Add creates an item from the input field.
// Returns nil if the trimmed input is blank.
func (c *Controller) Add() *Op {
	name := strings.TrimSpace(c.input)
	if name == "" {
		return nil
	}
	return &Op{
		Kind: OpAdd,
		run: func(ctx context.Context, s store.Store) error {
			_, err := s.Create(ctx, Collection, store.Fields{
				FieldName:      name,
				FieldCompleted: false,
				FieldCreatedAt: store.ServerTimestamp,
			})
			return err
		},
		done: func(c *Controller) { c.input = "" },
	}
}

// Toggle flips the completion of an item. The local copy is left alone
// until the store echoes the change. Returns nil for an unknown id.
func (c *Controller) Toggle(id string) *Op {
	item, ok := c.Item(id)
	if !ok {
		return nil
	}
	return &Op{
		Kind: OpToggle,
		ID:   id,
		run: func(ctx context.Context, s store.Store) error {
			return s.Update(ctx, Collection, id, store.Fields{FieldCompleted: !item.Completed})
		},
	}
}

// SaveEdit writes the trimmed draft as the item's new name.
// Returns nil when nothing is being edited or the draft is blank; the edit
// stays open in that case.
func (c *Controller) SaveEdit() *Op {
	if c.editing == nil {
		return nil
	}
	id := c.editing.ID
	name := strings.TrimSpace(c.editing.Draft)
	if name == "" {
		return nil
	}
	return &Op{
		Kind: OpRename,
		ID:   id,
		run: func(ctx context.Context, s store.Store) error {
			return s.Update(ctx, Collection, id, store.Fields{FieldName: name})
		},
		done: func(c *Controller) {
			if c.editing != nil && c.editing.ID == id {
				c.editing = nil
			}
		},
	}
}

// ConfirmDelete deletes the pending item and leaves the confirmation state
// immediately. Returns nil when nothing is pending.
func (c *Controller) ConfirmDelete() *Op {
	id := c.pendingDelete
	if id == "" {
		return nil
	}
	c.pendingDelete = ""
	return c.deleteOp(id)
}

// Delete removes an item without confirmation.
func (c *Controller) Delete(id string) *Op {
	if id == "" {
		return nil
	}
	return c.deleteOp(id)
}

func (c *Controller) deleteOp(id string) *Op {
	return &Op{
		Kind: OpDelete,
		ID:   id,
		run: func(ctx context.Context, s store.Store) error {
			return s.Delete(ctx, Collection, id)
		},
	}
}

// Run performs op against the controller's store. It touches no controller
// state and may run on any goroutine.
func (c *Controller) Run(ctx context.Context, op *Op) error {
	if op == nil {
		return nil
	}
	return op.run(ctx, c.store)
}

// Complete applies the outcome of a finished op on the owner goroutine.
// On success the op's follow-up runs (clearing the input or the edit slot);
// on failure the error is kept for display and the state is left as it was.
func (c *Controller) Complete(op *Op, err error) {
	if op == nil {
		return
	}
	if err != nil {
		glog.Warningf("[tasklist]%s %s failed: %v\n", op.Kind, op.ID, err)
		c.err = fmt.Errorf("%s failed: %w", op.Kind, err)
		return
	}
	if op.done != nil {
		op.done(c)
	}
}

// Do runs op and completes it. A nil op is a no-op.
func (c *Controller) Do(ctx context.Context, op *Op) error {
	if op == nil {
		return nil
	}
	err := c.Run(ctx, op)
	c.Complete(op, err)
	return err
}
