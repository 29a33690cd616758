// Package store is the client side of the remote document store. Documents are
// schemaless field maps addressed by an opaque, store-assigned id.
package store

import (
	"context"
	"errors"
)

// Collection names used by the dashboard.
const (
	Drivers     = "Drivers"
	Dispatchers = "Dispatchers"
	Loads       = "Loads"
)

// ErrInvalidID is returned when an id cannot address a document in the backend.
var ErrInvalidID = errors.New("invalid document id")

// Fields is the body of a document. It never carries the id.
type Fields map[string]any

// Document is one stored record.
type Document struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// Client is the CRUD contract every backend implements.
//
// Replace is a full overwrite and creates the document when the id is unused.
// Delete of a missing id is not an error.
type Client interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	Replace(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
}

type freshReadKey struct{}

// WithFreshRead marks ctx so that List reads through any cache to the backing
// store. The fetched result still repopulates the cache.
func WithFreshRead(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshReadKey{}, true)
}

// FreshRead reports whether ctx was marked by WithFreshRead.
func FreshRead(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshReadKey{}).(bool)
	return fresh
}

// withoutID drops identity keys a caller may have left in the field map.
func withoutID(fields Fields) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if k == "id" || k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}
