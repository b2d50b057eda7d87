package squid

import (
	"github.com/gammazero/workerpool"
	"github.com/panjf2000/ants/v2"
	conc "github.com/sourcegraph/conc/pool"
)

// Pool is the dispatch backend an Executor uses to start its worker
// goroutines. Any implementation can be plugged in via WithPool; the
// default launches a plain goroutine per worker.
//
// Unlike a typical "submit one job" pool interface, the function an
// Executor hands to Pool.Go is the worker's entire idle-aware dequeue loop
// — it runs until the worker retires, not just for a single task. Pool
// implementations backed by a fixed number of goroutines (ants,
// workerpool) will therefore tie up one of their slots for as long as that
// worker stays alive.
type Pool interface {
	// Go starts f running. It returns an error if the backend could not
	// find or create a slot for it; in that case f never runs.
	Go(f func()) error
}

type poolFunc func(f func()) error

func (p poolFunc) Go(f func()) error {
	return p(f)
}

// PoolOfGoroutines returns a Pool that launches a plain goroutine per
// worker, with no limit on how many can run concurrently. This is the
// default backend.
func PoolOfGoroutines() Pool {
	return poolFunc(func(f func()) error {
		go f()
		return nil
	})
}

// PoolOfAnts adapts a panjf2000/ants pool as a dispatch backend. Because
// ants pools have a fixed capacity, Submit returns ants.ErrPoolOverload
// once that capacity is exhausted by long-lived workers — this is the
// realistic source of ErrThreadCreationFailed in a bounded deployment.
func PoolOfAnts(pool *ants.Pool) Pool {
	if pool == nil {
		panic("squid: ants pool is nil")
	}
	return poolFunc(func(f func()) error {
		return pool.Submit(f)
	})
}

// PoolOfWorkerpool adapts a gammazero/workerpool as a dispatch backend.
func PoolOfWorkerpool(pool *workerpool.WorkerPool) Pool {
	if pool == nil {
		panic("squid: worker pool is nil")
	}
	return poolFunc(func(f func()) error {
		pool.Submit(f)
		return nil
	})
}

// PoolOfConc adapts a sourcegraph/conc pool as a dispatch backend. This
// adapter recovers nothing itself, but the worker loop it runs recovers its
// own panics and records them (see Executor.Err), so none reach conc.
func PoolOfConc(pool *conc.Pool) Pool {
	if pool == nil {
		panic("squid: conc pool is nil")
	}
	return poolFunc(func(f func()) error {
		pool.Go(f)
		return nil
	})
}
