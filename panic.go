package squid

import (
	"fmt"
	"sync/atomic"
	"time"
)

// panicError records a panic recovered from inside a task: a timestamp,
// the recover() value, and the stack captured at the time of the panic,
// with the formatted message cached after first use.
type panicError struct {
	at    time.Time
	info  any
	stack []byte
	cache atomic.Pointer[string]
}

func newPanicError(info any, stack []byte) error {
	return &panicError{
		at:    time.Now(),
		info:  info,
		stack: stack,
	}
}

func (e *panicError) Error() string {
	if e.cache.Load() == nil {
		msg := fmt.Sprintf("squid: task panic at %s: %v\n%s",
			e.at.Format(time.RFC3339Nano), e.info, e.stack)
		e.cache.Store(&msg)
	}
	return *e.cache.Load()
}
