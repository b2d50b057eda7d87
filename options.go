package squid

import (
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"
)

// Option configures an Executor at construction time. There is no runtime
// configuration surface beyond these: the executor reads no environment
// variables and no config files, only what is passed in at New.
type Option func(*Executor)

// WithPool selects the dispatch backend used to start worker goroutines.
// The default is PoolOfGoroutines.
func WithPool(pool Pool) Option {
	return func(e *Executor) {
		if pool != nil {
			e.pool = pool
		}
	}
}

// WithIdleTimeout overrides how long a worker waits for new work before
// retiring. The default is 60 seconds, as specified. A non-positive
// duration is ignored.
func WithIdleTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.idleTimeout = d
		}
	}
}

// WithLogger overrides the executor's structured logger. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxWorkers bounds the pool to at most n concurrently live workers,
// useful in constrained environments where an unbounded pool risks
// exhausting memory or OS threads. Once the cap is reached, Submit falls
// back to existing workers exactly as it does for any other spawn
// failure, only returning ErrThreadCreationFailed if none exist. A
// non-positive n is ignored, leaving the pool unbounded.
func WithMaxWorkers(n int64) Option {
	return func(e *Executor) {
		if n > 0 {
			e.sem = semaphore.NewWeighted(n)
		}
	}
}
