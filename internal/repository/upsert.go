package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/fleet-dashboard/internal/events"
)

// Action is the branch an upsert took.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Result is the terminal outcome of a mutation. A failed remote write is not an
// error for the caller: it is reported in WriteErr after the collection has been
// refetched, and Reconciled tells whether that refetch succeeded.
type Result[T any] struct {
	Action     Action
	Entity     T
	WriteErr   error
	Reconciled bool
}

// upsert applies one mutation. The branch is chosen by the input's shape:
// delete marker, existing id, or no id.
func upsert[T any](ctx context.Context, r *EntityRepository, k kind[T], input T) (Result[T], error) {
	id := k.id(input)
	switch {
	case k.deleted(input):
		if id == "" {
			return Result[T]{}, &PreconditionError{Collection: k.collection, Reason: "delete requires an id"}
		}
		return deleteEntity(ctx, r, k, id)
	case id != "":
		return replaceEntity(ctx, r, k, input)
	default:
		return createEntity(ctx, r, k, input)
	}
}

func createEntity[T any](ctx context.Context, r *EntityRepository, k kind[T], input T) (Result[T], error) {
	res := Result[T]{Action: ActionCreated}
	fields, err := encodeFields(input)
	if err != nil {
		return res, err
	}

	newID, err := r.client.Create(ctx, k.collection, fields)
	r.metrics.RecordStoreOp(k.collection, "create", err)
	if err != nil {
		return reconcileAfterWrite(ctx, r, k, res, "", "create", err)
	}

	created := k.clone(input)
	k.setID(&created, newID)

	r.mu.Lock()
	slot := k.slot(&r.state)
	*slot = append(*slot, created)
	r.mu.Unlock()

	res.Entity = k.clone(created)
	r.logger.Info("entity created", zap.String("collection", k.collection), zap.String("id", newID))
	r.publish(ctx, events.NewEvent(events.EventEntityCreated, k.collection, newID, events.EntityPayload{Label: k.label(created)}))
	return res, nil
}

func replaceEntity[T any](ctx context.Context, r *EntityRepository, k kind[T], input T) (Result[T], error) {
	id := k.id(input)
	res := Result[T]{Action: ActionUpdated}

	unlock := r.locks.Lock(k.collection + "/" + id)
	defer unlock()

	stored, err := lookup(r, k, id)
	if err != nil {
		return res, &PreconditionError{Collection: k.collection, ID: id, Reason: "update target does not exist"}
	}
	if k.merge != nil {
		input = k.merge(stored, input)
	}
	fields, err := encodeFields(input)
	if err != nil {
		return res, err
	}

	err = r.client.Replace(ctx, k.collection, id, fields)
	r.metrics.RecordStoreOp(k.collection, "replace", err)
	if err != nil {
		return reconcileAfterWrite(ctx, r, k, res, id, "replace", err)
	}

	updated := k.clone(input)
	r.mu.Lock()
	slot := k.slot(&r.state)
	for i := range *slot {
		if k.id((*slot)[i]) == id {
			(*slot)[i] = updated
			break
		}
	}
	r.mu.Unlock()

	res.Entity = k.clone(updated)
	r.logger.Info("entity replaced", zap.String("collection", k.collection), zap.String("id", id))
	r.publish(ctx, events.NewEvent(events.EventEntityUpdated, k.collection, id, events.EntityPayload{Label: k.label(updated)}))
	return res, nil
}

// deleteEntity is fail-soft: the local record is dropped even when the remote
// delete fails, and the caller is not handed the write error as a failure.
func deleteEntity[T any](ctx context.Context, r *EntityRepository, k kind[T], id string) (Result[T], error) {
	res := Result[T]{Action: ActionDeleted}

	unlock := r.locks.Lock(k.collection + "/" + id)
	defer unlock()

	removed, _ := lookup(r, k, id)

	writeErr := r.client.Delete(ctx, k.collection, id)
	r.metrics.RecordStoreOp(k.collection, "delete", writeErr)

	r.mu.Lock()
	slot := k.slot(&r.state)
	kept := (*slot)[:0]
	for _, item := range *slot {
		if k.id(item) != id {
			kept = append(kept, item)
		}
	}
	*slot = kept
	r.mu.Unlock()

	if writeErr != nil {
		res, err := reconcileAfterWrite(ctx, r, k, res, id, "delete", writeErr)
		if err != nil && errors.Is(err, ErrReconcileFailed) {
			return res, nil
		}
		return res, err
	}

	r.logger.Info("entity deleted", zap.String("collection", k.collection), zap.String("id", id))
	r.publish(ctx, events.NewEvent(events.EventEntityDeleted, k.collection, id, events.EntityPayload{Label: k.label(removed)}))
	return res, nil
}

// reconcileAfterWrite refetches the collection after a failed remote write so
// the local copy cannot drift from the store. When the refetch fails too, one
// background refetch is queued and ErrReconcileFailed is returned.
func reconcileAfterWrite[T any](ctx context.Context, r *EntityRepository, k kind[T], res Result[T], id, op string, writeErr error) (Result[T], error) {
	res.WriteErr = writeErr
	r.logger.Warn("store write failed; refetching",
		zap.String("collection", k.collection),
		zap.String("id", id),
		zap.String("operation", op),
		zap.Error(writeErr),
	)
	r.publish(ctx, events.NewEvent(events.EventWriteFailed, k.collection, id, events.FailurePayload{Operation: op, Error: writeErr.Error()}))

	if err := refreshKind(ctx, r, k, "write_failed"); err != nil {
		r.enqueueReconcile(k.collection)
		r.publish(ctx, events.NewEvent(events.EventReconcileFailed, k.collection, id, events.FailurePayload{Operation: "refresh", Error: err.Error()}))
		return res, fmt.Errorf("%s %s after failed %s: %w", k.collection, id, op, errors.Join(ErrReconcileFailed, writeErr, err))
	}
	res.Reconciled = true
	return res, nil
}
