package squid

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"
)

// defaultIdleTimeout is how long a worker waits for new work before
// retiring, per spec.
const defaultIdleTimeout = 60 * time.Second

// Executor owns an elastic pool of worker goroutines, the pending-task
// queue, and the submit/shutdown surface. It creates futures, schedules
// them onto workers, and drives cancellation of any future still queued
// or running when shutdown is requested.
//
// An Executor is safe for concurrent use by multiple goroutines.
type Executor struct {
	queue       taskQueue
	count       atomic.Uint64
	ready       atomic.Uint64
	running     atomic.Bool
	idleTimeout time.Duration
	pool        Pool
	logger      *slog.Logger
	sem         *semaphore.Weighted
	wake        chan struct{}

	panicsMu sync.Mutex
	panics   error
}

// New creates a running Executor. It never fails: unlike the language-
// neutral surface this package adapts, Go does not expose allocation
// failure as a recoverable error, so there is no OUT_IS_NULL/
// MEMORY_ALLOCATION_FAILED case to report here.
func New(opts ...Option) *Executor {
	e := &Executor{
		idleTimeout: defaultIdleTimeout,
		pool:        PoolOfGoroutines(),
		logger:      slog.Default(),
		wake:        make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.running.Store(true)
	return e
}

// Count returns the number of worker goroutines currently alive, whether
// idle or busy.
func (e *Executor) Count() uint64 {
	return e.count.Load()
}

// Ready returns the number of worker goroutines currently idle, waiting
// for work. Ready is always <= Count.
func (e *Executor) Ready() uint64 {
	return e.ready.Load()
}

// IsRunning reports whether the executor will still accept new
// submissions.
func (e *Executor) IsRunning() bool {
	return e.running.Load()
}

// Err returns the combined errors recovered from task panics so far,
// or nil if none have occurred. Panics never crash the executor; they are
// converted into the panicking future's error (see Future.Get) and
// accumulated here so a host program can notice they happened.
func (e *Executor) Err() error {
	e.panicsMu.Lock()
	defer e.panicsMu.Unlock()
	return e.panics
}

func (e *Executor) recordPanic(r any) {
	e.logger.Error("squid: recovered task panic", slog.Any("panic", r))
	e.panicsMu.Lock()
	e.panics = multierr.Append(e.panics, newPanicError(r, debug.Stack()))
	e.panicsMu.Unlock()
}

// Submit schedules fn for execution and returns a Future handle for its
// result. Submit fails with ErrFunctionIsNil if fn is nil and with
// ErrIsBusyShuttingDown once Shutdown has been requested.
//
// Submit is a free function, not a method, because Go methods cannot
// introduce their own type parameters independent of the receiver's.
func Submit[V any](e *Executor, fn Task[V]) (*Future[V], error) {
	if fn == nil {
		return nil, ErrFunctionIsNil
	}
	if !e.running.Load() {
		return nil, ErrIsBusyShuttingDown
	}
	f := newFuture(e, fn)
	if err := e.schedule(f); err != nil {
		return nil, err
	}
	return f, nil
}

// schedule applies the enqueue policy from the design: spawn a new worker
// whenever none are idle, then push the task and wake at most one waiter.
func (e *Executor) schedule(r runnable) error {
	if e.ready.Load() == 0 {
		if err := e.spawnWorker(); err != nil {
			if e.count.Load() == 0 {
				return ErrThreadCreationFailed
			}
			e.logger.Debug("squid: worker spawn failed, relying on existing workers",
				slog.Any("error", err))
		}
	}
	e.queue.push(r)
	e.signalWake()
	return nil
}

func (e *Executor) spawnWorker() error {
	if e.sem != nil && !e.sem.TryAcquire(1) {
		return ErrMaxWorkersReached
	}
	if err := e.pool.Go(e.workerLoop); err != nil {
		if e.sem != nil {
			e.sem.Release(1)
		}
		return err
	}
	e.count.Inc()
	e.logger.Debug("squid: worker spawned", slog.Uint64("count", e.count.Load()))
	return nil
}

// signalWake wakes at most one worker blocked waiting for the queue to
// become non-empty. It is a non-blocking send on a size-1 channel, the
// channel idiom for "signal one", as opposed to closing a channel which
// would wake every waiter at once.
func (e *Executor) signalWake() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// workerLoop is the body handed to the dispatch Pool. It runs until the
// worker retires after sitting idle for idleTimeout.
func (e *Executor) workerLoop() {
	defer e.retire()
	for {
		for {
			t, ok := e.queue.pop()
			if !ok {
				break
			}
			// Wake a peer that might also be waiting on the queue to
			// drain; harmless if nobody is listening.
			e.signalWake()
			t.run()
		}
		if !e.waitForWork() {
			return
		}
	}
}

// waitForWork blocks until either new work arrives or idleTimeout elapses
// with the queue still empty, returning false in the latter case so the
// worker retires.
func (e *Executor) waitForWork() bool {
	e.ready.Inc()
	var woken bool
	select {
	case <-e.wake:
		woken = true
	case <-time.After(e.idleTimeout):
	}
	// ready must drop before this final check, not after: otherwise a
	// racing schedule() can read a stale ready>0, skip spawning a
	// rescuer, and strand its task behind a worker that's about to exit.
	e.ready.Dec()
	return woken || e.queue.len() > 0
}

func (e *Executor) retire() {
	if r := recover(); r != nil {
		// Defensive net: Future.invoke already converts task panics into
		// errors, so reaching here means something in the loop itself
		// misbehaved. Record it the same way and let the worker exit.
		e.recordPanic(r)
	}
	if e.sem != nil {
		e.sem.Release(1)
	}
	e.count.Dec()
	e.logger.Debug("squid: worker retired", slog.Uint64("count", e.count.Load()))
}

// Shutdown stops the executor from accepting new submissions. It is
// one-shot: the first call succeeds, every subsequent call fails with
// ErrIsBusyShuttingDown. Shutdown alone does not wait for workers to
// drain — use Close for that.
func (e *Executor) Shutdown() error {
	if !e.running.CompareAndSwap(true, false) {
		return ErrIsBusyShuttingDown
	}
	e.logger.Info("squid: shutdown requested")
	return nil
}

// Close performs the executor's graceful teardown: it requests shutdown
// (tolerating one already in progress), then waits for every worker to
// retire before releasing the task queue. It is equivalent to Go's
// idiom for "close when the last handle is released", in place of the
// refcounted destructor the language-neutral design assumes.
func (e *Executor) Close() error {
	return e.CloseContext(context.Background())
}

// CloseContext is Close bounded by ctx; if ctx is done before every worker
// has retired, CloseContext returns ctx's error and the executor is left
// mid-teardown (shut down, still draining).
func (e *Executor) CloseContext(ctx context.Context) error {
	if err := e.Shutdown(); err != nil && !errors.Is(err, ErrIsBusyShuttingDown) {
		return err
	}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for e.count.Load() > 0 {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	e.queue.clear()
	return e.Err()
}
