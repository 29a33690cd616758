// Package query sorts, searches and filters snapshots of the fleet collections.
// Every function works on a copy; the input slices are never reordered.
package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnknownField is returned when a sort names a field the entity does not expose.
	ErrUnknownField = errors.New("unknown sort field")
	// ErrInvalidDirection is returned for a direction other than asc or desc.
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// Direction is the sort order of a column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection reads a direction from a query string. Empty means ascending.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
}

// SortState is the active sort column and its direction. The zero value means
// unsorted.
type SortState struct {
	Field     string
	Direction Direction
}

// Toggle returns the state after a column header is selected: the same field
// flips direction, a new field starts ascending.
func (s SortState) Toggle(field string) SortState {
	if s.Field == field && s.Direction == Ascending {
		return SortState{Field: field, Direction: Descending}
	}
	return SortState{Field: field, Direction: Ascending}
}

// Value is a sort key. Numbers compare by magnitude, strings lexically, and a
// number always orders before a string.
type Value struct {
	text    string
	number  float64
	numeric bool
}

// String builds a lexical sort key.
func String(s string) Value { return Value{text: s} }

// Number builds a numeric sort key.
func Number(f float64) Value { return Value{number: f, numeric: true} }

// Compare orders two keys.
func (v Value) Compare(other Value) int {
	switch {
	case v.numeric && other.numeric:
		return cmp.Compare(v.number, other.number)
	case v.numeric:
		return -1
	case other.numeric:
		return 1
	default:
		return strings.Compare(v.text, other.text)
	}
}

// Accessor extracts the sort key of one field.
type Accessor[T any] func(T) Value

// Fields maps sortable field names to accessors.
type Fields[T any] map[string]Accessor[T]

type decorated[T any] struct {
	key   Value
	index int
	item  T
}

// Sort returns a stably sorted copy of items. Equal keys keep their original
// relative order in both directions. An empty field returns the items as given.
func Sort[T any](items []T, fields Fields[T], state SortState) ([]T, error) {
	if state.Field == "" {
		return slices.Clone(items), nil
	}
	key, ok := fields[state.Field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, state.Field)
	}
	dir := state.Direction
	if dir == "" {
		dir = Ascending
	}
	if dir != Ascending && dir != Descending {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	rows := make([]decorated[T], len(items))
	for i, item := range items {
		rows[i] = decorated[T]{key: key(item), index: i, item: item}
	}
	slices.SortFunc(rows, func(a, b decorated[T]) int {
		c := a.key.Compare(b.key)
		if dir == Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = row.item
	}
	return out, nil
}
