package repository

import (
	"context"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
)

// AddDispatcher stores a new dispatcher, off duty and without loads.
func (r *EntityRepository) AddDispatcher(ctx context.Context, dispatcher domain.Dispatcher) (Result[domain.Dispatcher], error) {
	return upsert(ctx, r, dispatcherKind, domain.NewDispatcher(dispatcher))
}

// UpdateDispatcher replaces a dispatcher document, keeping the stored avatar when the input has none.
func (r *EntityRepository) UpdateDispatcher(ctx context.Context, dispatcher domain.Dispatcher) (Result[domain.Dispatcher], error) {
	if dispatcher.ID == "" {
		return Result[domain.Dispatcher]{}, &PreconditionError{Collection: dispatcherKind.collection, Reason: "update requires an id"}
	}
	dispatcher.Deleted = false
	return upsert(ctx, r, dispatcherKind, dispatcher)
}

// DeleteDispatcher removes a dispatcher. Loads naming the dispatcher are left untouched.
func (r *EntityRepository) DeleteDispatcher(ctx context.Context, id string) (Result[domain.Dispatcher], error) {
	return upsert(ctx, r, dispatcherKind, domain.Dispatcher{ID: id, Deleted: true})
}
