// Package repository owns the session's copies of the Drivers, Dispatchers and
// Loads collections. It is the only component that talks to the remote store,
// and after every write it makes sure the local copy matches the store again.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
	"github.com/spec-kit/fleet-dashboard/internal/events"
	"github.com/spec-kit/fleet-dashboard/internal/observability"
	"github.com/spec-kit/fleet-dashboard/internal/store"
)

// Reconciler accepts collections that need a background refetch.
type Reconciler interface {
	Enqueue(collection string) bool
}

// Status reports the outcome of the initial load.
type Status struct {
	Loaded   bool      `json:"loaded"`
	Err      error     `json:"-"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

// Snapshot is a copy of all three collections taken under one read lock.
type Snapshot struct {
	Drivers     []domain.Driver
	Dispatchers []domain.Dispatcher
	Loads       []domain.Load
}

type state struct {
	drivers     []domain.Driver
	dispatchers []domain.Dispatcher
	loads       []domain.Load
}

// Dependencies bundles the collaborators of the repository.
type Dependencies struct {
	Client     store.Client
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher
}

// EntityRepository is the in-memory authoritative cache of the remote collections.
type EntityRepository struct {
	client     store.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
	locks      *keyedMutex

	reconcileMu sync.RWMutex
	reconciler  Reconciler

	mu     sync.RWMutex
	state  state
	status Status
}

// NewEntityRepository builds an empty repository. Call LoadAll to populate it.
func NewEntityRepository(deps Dependencies) *EntityRepository {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.Nop{}
	}
	return &EntityRepository{
		client:     deps.Client,
		logger:     logger,
		metrics:    deps.Metrics,
		dispatcher: dispatcher,
		locks:      newKeyedMutex(),
		state: state{
			drivers:     []domain.Driver{},
			dispatchers: []domain.Dispatcher{},
			loads:       []domain.Load{},
		},
	}
}

// SetReconciler installs the background refetch queue.
func (r *EntityRepository) SetReconciler(rec Reconciler) {
	r.reconcileMu.Lock()
	defer r.reconcileMu.Unlock()
	r.reconciler = rec
}

// LoadAll fetches the three collections concurrently and swaps them in together.
// If any fetch fails nothing is swapped, the status records the error, and a
// single error is returned.
func (r *EntityRepository) LoadAll(ctx context.Context) error {
	var (
		drivers     []domain.Driver
		dispatchers []domain.Dispatcher
		loads       []domain.Load
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		drivers, err = fetch(gctx, r, driverKind)
		return err
	})
	g.Go(func() (err error) {
		dispatchers, err = fetch(gctx, r, dispatcherKind)
		return err
	})
	g.Go(func() (err error) {
		loads, err = fetch(gctx, r, loadKind)
		return err
	})

	if err := g.Wait(); err != nil {
		loadErr := fmt.Errorf("%w: %w", ErrLoadFailed, err)
		r.mu.Lock()
		r.status = Status{Loaded: true, Err: loadErr}
		r.mu.Unlock()
		r.logger.Error("initial load failed", zap.Error(err))
		r.publish(ctx, events.NewEvent(events.EventLoadAllFailed, "", "", events.FailurePayload{Operation: "load_all", Error: err.Error()}))
		return loadErr
	}

	r.mu.Lock()
	r.state = state{drivers: drivers, dispatchers: dispatchers, loads: loads}
	r.status = Status{Loaded: true, LoadedAt: time.Now().UTC()}
	r.mu.Unlock()

	r.logger.Info("collections loaded",
		zap.Int("drivers", len(drivers)),
		zap.Int("dispatchers", len(dispatchers)),
		zap.Int("loads", len(loads)),
	)
	return nil
}

// Refresh refetches one collection and replaces the local copy in full.
func (r *EntityRepository) Refresh(ctx context.Context, collection string) error {
	return r.refresh(ctx, collection, "requested")
}

// Reconcile is the background refetch run by the reconcile worker.
func (r *EntityRepository) Reconcile(ctx context.Context, collection string) error {
	return r.refresh(ctx, collection, "background")
}

func (r *EntityRepository) refresh(ctx context.Context, collection, reason string) error {
	switch collection {
	case store.Drivers:
		return refreshKind(ctx, r, driverKind, reason)
	case store.Dispatchers:
		return refreshKind(ctx, r, dispatcherKind, reason)
	case store.Loads:
		return refreshKind(ctx, r, loadKind, reason)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
}

// Status reports whether the initial load finished and how.
func (r *EntityRepository) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Drivers returns a copy of the driver collection.
func (r *EntityRepository) Drivers() []domain.Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(driverKind, r.state.drivers)
}

// Dispatchers returns a copy of the dispatcher collection.
func (r *EntityRepository) Dispatchers() []domain.Dispatcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(dispatcherKind, r.state.dispatchers)
}

// Loads returns a copy of the load collection.
func (r *EntityRepository) Loads() []domain.Load {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(loadKind, r.state.loads)
}

// Snapshot copies all three collections consistently.
func (r *EntityRepository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Drivers:     cloneAll(driverKind, r.state.drivers),
		Dispatchers: cloneAll(dispatcherKind, r.state.dispatchers),
		Loads:       cloneAll(loadKind, r.state.loads),
	}
}

// Driver looks up one driver by id.
func (r *EntityRepository) Driver(id string) (domain.Driver, error) {
	return lookup(r, driverKind, id)
}

// Dispatcher looks up one dispatcher by id.
func (r *EntityRepository) Dispatcher(id string) (domain.Dispatcher, error) {
	return lookup(r, dispatcherKind, id)
}

// Load looks up one load by id.
func (r *EntityRepository) Load(id string) (domain.Load, error) {
	return lookup(r, loadKind, id)
}

func (r *EntityRepository) publish(ctx context.Context, event events.Event) {
	_ = r.dispatcher.Publish(ctx, event)
}

func (r *EntityRepository) enqueueReconcile(collection string) bool {
	r.reconcileMu.RLock()
	rec := r.reconciler
	r.reconcileMu.RUnlock()
	if rec == nil {
		return false
	}
	queued := rec.Enqueue(collection)
	if !queued {
		r.logger.Warn("background reconcile not queued", zap.String("collection", collection))
	}
	return queued
}

func fetch[T any](ctx context.Context, r *EntityRepository, k kind[T]) ([]T, error) {
	docs, err := r.client.List(ctx, k.collection)
	r.metrics.RecordStoreOp(k.collection, "list", err)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", k.collection, err)
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		entity, err := decodeDocument(k, doc)
		if err != nil {
			r.logger.Warn("skipping malformed document",
				zap.String("collection", k.collection),
				zap.String("id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		out = append(out, entity)
	}
	return out, nil
}

// refreshKind always reads through the store cache: it runs after failed writes
// and on demand after changes made outside this process.
func refreshKind[T any](ctx context.Context, r *EntityRepository, k kind[T], reason string) error {
	items, err := fetch(store.WithFreshRead(ctx), r, k)
	if err != nil {
		r.logger.Error("refresh failed", zap.String("collection", k.collection), zap.String("reason", reason), zap.Error(err))
		return err
	}
	r.mu.Lock()
	*k.slot(&r.state) = items
	r.mu.Unlock()

	r.metrics.RecordReconcile(k.collection, reason)
	r.publish(ctx, events.NewEvent(events.EventCollectionRefreshed, k.collection, "", events.RefreshPayload{Count: len(items), Reason: reason}))
	return nil
}

func lookup[T any](r *EntityRepository, k kind[T], id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range *k.slot(&r.state) {
		if k.id(item) == id {
			return k.clone(item), nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s/%s", ErrNotFound, k.collection, id)
}

func cloneAll[T any](k kind[T], items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = k.clone(item)
	}
	return out
}
