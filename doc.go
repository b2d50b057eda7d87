// Package squid implements a process-wide task executor with future-based
// results: callers submit arbitrary work to a self-managed pool of worker
// goroutines and receive a handle — a Future — by which the work can be
// observed, cancelled, and collected.
//
// The executor grows its worker pool lazily as work arrives and retires
// idle workers after a configurable timeout. Tasks cooperate with
// cancellation by polling the Probe passed to them; cancellation (whether
// requested explicitly or triggered by executor shutdown) is always
// advisory and can never abort a task that ignores the probe.
//
// This package has no persisted state, no wire protocol, and no user
// interface. It is meant to be linked into a host program.
package squid
