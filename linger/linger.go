// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package linger contains a utility for reporting on where lingering
// tasks were originally started.
package linger

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"vawter.tech/fanout"
)

// This value is sensitive to the code structure.
const callersOffset = 3

// NewRecorder constructs a [Recorder] that samples the call stack at
// the requested depth. A depth of 1 will record the location at which
// [fanout.Group.Go] was executed.
func NewRecorder(depth int) *Recorder {
	return &Recorder{depth: depth}
}

// A Recorder can be attached to a [fanout.Group] to record the call
// stack where [fanout.Group.Go] has been called. It is primarily
// useful for testing scenarios, to ensure that no tasks are still
// running after a call to [fanout.Group.Wait] has returned.
type Recorder struct {
	counter atomic.Uintptr
	data    sync.Map
	depth   int
}

// Callers returns a snapshot of the caller stacks associated with any
// recorded tasks that are currently running.
func (r *Recorder) Callers() [][]uintptr {
	var ret [][]uintptr
	r.data.Range(func(_, value any) bool {
		ret = append(ret, value.([]uintptr))
		return true
	})
	return ret
}

// Middleware is a [fanout.Middleware] that samples the caller of
// [fanout.Group.Go] and tracks the task until it returns.
func (r *Recorder) Middleware(ctx context.Context) (context.Context, fanout.Invoker) {
	pc := make([]uintptr, r.depth)
	pc = pc[:runtime.Callers(callersOffset, pc)]

	id := r.counter.Add(1)
	r.data.Store(id, pc)

	return ctx, func(ctx context.Context, task fanout.Task) error {
		defer r.data.Delete(id)
		return task(ctx)
	}
}
