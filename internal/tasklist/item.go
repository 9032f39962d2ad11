// Package tasklist holds the view state of the to-do list and turns user
// intents into store operations.
//
// The local collection is never the source of truth: it is replaced wholesale
// by every snapshot of the live query, and mutations only become visible once
// the store echoes them back through that query.
package tasklist

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"todo/internal/store"
)

// Collection is the store collection holding the items.
const Collection = "items"

// Document field names.
const (
	FieldName      = "name"
	FieldCompleted = "completed"
	FieldCreatedAt = "createdAt"
)

// Query is the live query backing the list: every item, newest first.
var Query = store.Query{
	Collection: Collection,
	OrderBy:    FieldCreatedAt,
	Direction:  store.Desc,
}

// Item is a single to-do entry.
type Item struct {
	ID        string
	Name      string
	Completed bool
	CreatedAt time.Time
}

func itemFromDocument(doc store.Document) Item {
	return Item{
		ID:        doc.ID,
		Name:      doc.String(FieldName),
		Completed: doc.Bool(FieldCompleted),
		CreatedAt: doc.Time(FieldCreatedAt),
	}
}

func itemsFromDocuments(docs []store.Document) []Item {
	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, itemFromDocument(doc))
	}
	return items
}

// Filter selects which items are visible.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Match reports whether an item is visible under the filter.
func (f Filter) Match(item Item) bool {
	switch f {
	case FilterActive:
		return !item.Completed
	case FilterCompleted:
		return item.Completed
	default:
		return true
	}
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	return Filters[(int(f)+1)%len(Filters)]
}

// ParseFilter parses a filter name (case-insensitive, trimmed).
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("invalid filter: %s", s)
}

// Apply returns the items visible under the filter, preserving order.
// The result never shares a backing array with items.
func (f Filter) Apply(items []Item) []Item {
	if f == FilterAll {
		return slices.Clone(items)
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Editing is the single in-progress edit.
type Editing struct {
	ID    string
	Draft string
}
