package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Refresher refetches one collection in the background.
type Refresher interface {
	Reconcile(ctx context.Context, collection string) error
}

// ReconcileWorker retries collection refetches that failed after a write. Each
// queued collection gets one attempt; a collection already waiting is not queued
// twice.
type ReconcileWorker struct {
	refresher Refresher
	logger    *zap.Logger
	timeout   time.Duration

	queue chan string

	mu      sync.Mutex
	pending map[string]struct{}

	wg sync.WaitGroup
}

// NewReconcileWorker creates a worker with a queue of the given size.
func NewReconcileWorker(refresher Refresher, logger *zap.Logger, size int, timeout time.Duration) *ReconcileWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 1
	}
	return &ReconcileWorker{
		refresher: refresher,
		logger:    logger,
		timeout:   timeout,
		queue:     make(chan string, size),
		pending:   make(map[string]struct{}),
	}
}

// Enqueue schedules a refetch without blocking. It reports false when the queue
// is full.
func (w *ReconcileWorker) Enqueue(collection string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[collection]; ok {
		return true
	}
	select {
	case w.queue <- collection:
		w.pending[collection] = struct{}{}
		return true
	default:
		w.logger.Warn("reconcile queue full", zap.String("collection", collection))
		return false
	}
}

// Start runs the worker until ctx is cancelled.
func (w *ReconcileWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case collection := <-w.queue:
				w.run(ctx, collection)
			}
		}
	}()
}

// Wait blocks until the worker goroutine has exited.
func (w *ReconcileWorker) Wait() {
	w.wg.Wait()
}

func (w *ReconcileWorker) run(ctx context.Context, collection string) {
	w.mu.Lock()
	delete(w.pending, collection)
	w.mu.Unlock()

	runCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	if err := w.refresher.Reconcile(runCtx, collection); err != nil {
		w.logger.Error("background reconcile failed", zap.String("collection", collection), zap.Error(err))
		return
	}
	w.logger.Info("background reconcile finished", zap.String("collection", collection))
}
