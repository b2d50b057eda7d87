package squid

import (
	"sync"

	"github.com/gammazero/deque"
)

// runnable is the type-erased interface every Future[V] satisfies so a
// single executor can queue tasks of differing result types.
type runnable interface {
	run()
}

// taskQueue is the executor's unbounded FIFO handoff queue between
// submitters and workers, backed by a ring-buffer deque rather than a
// linked list. It is internally synchronized; callers never need their own
// locking around it.
type taskQueue struct {
	mu sync.Mutex
	dq deque.Deque[runnable]
}

func (q *taskQueue) push(r runnable) {
	q.mu.Lock()
	q.dq.PushBack(r)
	q.mu.Unlock()
}

// pop removes and returns the oldest queued task, if any.
func (q *taskQueue) pop() (runnable, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.dq.Len() == 0 {
		return nil, false
	}
	return q.dq.PopFront(), true
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dq.Len()
}

func (q *taskQueue) clear() {
	q.mu.Lock()
	q.dq.Clear()
	q.mu.Unlock()
}
