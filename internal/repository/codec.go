package repository

import (
	"encoding/json"
	"fmt"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
	"github.com/spec-kit/fleet-dashboard/internal/store"
)

// kind describes how the generic sync code reads and writes one entity type.
type kind[T any] struct {
	collection string
	id         func(T) string
	setID      func(*T, string)
	deleted    func(T) bool
	clone      func(T) T
	label      func(T) string
	slot       func(*state) *[]T

	// merge, when set, carries fields from the stored record into a replacement.
	merge func(stored, input T) T
}

var driverKind = kind[domain.Driver]{
	collection: store.Drivers,
	id:         func(d domain.Driver) string { return d.ID },
	setID:      func(d *domain.Driver, id string) { d.ID = id },
	deleted:    func(d domain.Driver) bool { return d.Deleted },
	clone:      domain.Driver.Clone,
	label:      func(d domain.Driver) string { return string(d.Name) },
	slot:       func(s *state) *[]domain.Driver { return &s.drivers },
	merge:      keepDriverAvatar,
}

var dispatcherKind = kind[domain.Dispatcher]{
	collection: store.Dispatchers,
	id:         func(d domain.Dispatcher) string { return d.ID },
	setID:      func(d *domain.Dispatcher, id string) { d.ID = id },
	deleted:    func(d domain.Dispatcher) bool { return d.Deleted },
	clone:      domain.Dispatcher.Clone,
	label:      func(d domain.Dispatcher) string { return string(d.Name) },
	slot:       func(s *state) *[]domain.Dispatcher { return &s.dispatchers },
	merge:      keepDispatcherAvatar,
}

var loadKind = kind[domain.Load]{
	collection: store.Loads,
	id:         func(l domain.Load) string { return l.ID },
	setID:      func(l *domain.Load, id string) { l.ID = id },
	deleted:    func(l domain.Load) bool { return l.Deleted },
	clone:      domain.Load.Clone,
	label:      func(l domain.Load) string { return string(l.LoadID) },
	slot:       func(s *state) *[]domain.Load { return &s.loads },
}

func keepDriverAvatar(stored, input domain.Driver) domain.Driver {
	if input.Avatar == "" {
		input.Avatar = stored.Avatar
	}
	return input
}

func keepDispatcherAvatar(stored, input domain.Dispatcher) domain.Dispatcher {
	if input.Avatar == "" {
		input.Avatar = stored.Avatar
	}
	return input
}

// encodeFields renders an entity as a store document body, without id or delete marker.
func encodeFields(v any) (store.Fields, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var fields store.Fields
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(fields, "id")
	delete(fields, "deleted")
	return fields, nil
}

func decodeDocument[T any](k kind[T], doc store.Document) (T, error) {
	var out T
	body, err := json.Marshal(doc.Fields)
	if err != nil {
		return out, fmt.Errorf("decode %s/%s: %w", k.collection, doc.ID, err)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode %s/%s: %w", k.collection, doc.ID, err)
	}
	k.setID(&out, doc.ID)
	return out, nil
}
