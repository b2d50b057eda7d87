package squid

import "errors"

// Error taxonomy, following spec: argument errors are programmer mistakes
// reported rather than retried; resource errors are transient and may be
// retried by the caller; lifecycle errors mean the caller raced with a
// state transition and are informational.

var (
	// ErrFunctionIsNil is returned by Submit when the supplied task is
	// nil.
	ErrFunctionIsNil = errors.New("squid: task function is nil")

	// ErrIsBusyShuttingDown is returned by Submit once Shutdown has been
	// requested, and by Shutdown itself if called more than once.
	ErrIsBusyShuttingDown = errors.New("squid: executor is shutting down")

	// ErrThreadCreationFailed is returned by Submit when the dispatch
	// backend could not start a new worker and no existing worker is
	// available to pick up the task either.
	ErrThreadCreationFailed = errors.New("squid: worker creation failed")

	// ErrMaxWorkersReached is returned by the dispatch layer when
	// WithMaxWorkers bounds the pool and that bound has been reached. It
	// is treated the same as any other spawn failure: Submit falls back
	// to existing workers, only failing outright if none exist yet.
	ErrMaxWorkersReached = errors.New("squid: max worker count reached")

	// ErrFutureIsDone is returned by Cancel when the future is already
	// Done, whether its task returned a value, an error or panicked; a
	// Done future can no longer be cancelled.
	ErrFutureIsDone = errors.New("squid: future is done")

	// ErrFutureIsCancelled is returned by Get (and its variants) when the
	// future's terminal state is Cancelled rather than Done.
	ErrFutureIsCancelled = errors.New("squid: future is cancelled")

	// ErrTimedOut is joined with ErrFutureIsCancelled by GetWithTimeout
	// when the timeout elapses before the future completes.
	ErrTimedOut = errors.New("squid: future timed out")
)
