// Package store defines the backend-agnostic contract for the remote document store.
package store

import "time"

// Fields is the set of document fields written by Create and Update.
type Fields map[string]any

// Document is one document of a live query result.
type Document struct {
	ID     string
	Fields Fields
}

// String returns the named field as a string, or "" if it is absent or not a string.
func (d Document) String(name string) string {
	s, _ := d.Fields[name].(string)
	return s
}

// Bool returns the named field as a bool, or false if it is absent or not a bool.
func (d Document) Bool(name string) bool {
	b, _ := d.Fields[name].(bool)
	return b
}

// Time returns the named field as a time, or the zero time if it is absent.
func (d Document) Time(name string) time.Time {
	t, _ := d.Fields[name].(time.Time)
	return t
}

// Direction is the sort direction of a query.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Query describes a live query over a single collection.
type Query struct {
	Collection string
	OrderBy    string
	Direction  Direction
}

type serverTimestamp struct{}

// ServerTimestamp is a field value replaced by the store's commit time on write.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}
