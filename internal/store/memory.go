package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process document store. Documents are copied through JSON on
// the way in and out, so callers observe the same value shapes a remote store
// would return.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	order []string
	docs  map[string][]byte
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memoryCollection)}
}

func (m *Memory) List(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return []Document{}, nil
	}
	docs := make([]Document, 0, len(col.order))
	for _, id := range col.order {
		var fields Fields
		if err := json.Unmarshal(col.docs[id], &fields); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	return docs, nil
}

func (m *Memory) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := json.Marshal(withoutID(fields))
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}
	id := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.collection(collection)
	col.order = append(col.order, id)
	col.docs[id] = body
	return id, nil
}

func (m *Memory) Replace(ctx context.Context, collection, id string, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidID
	}
	body, err := json.Marshal(withoutID(fields))
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.collection(collection)
	if _, exists := col.docs[id]; !exists {
		col.order = append(col.order, id)
	}
	col.docs[id] = body
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.collections[collection]
	if !ok {
		return nil
	}
	if _, exists := col.docs[id]; !exists {
		return nil
	}
	delete(col.docs, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) collection(name string) *memoryCollection {
	col, ok := m.collections[name]
	if !ok {
		col = &memoryCollection{docs: make(map[string][]byte)}
		m.collections[name] = col
	}
	return col
}
