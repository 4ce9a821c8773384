// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package fanout

import (
	"context"
	"runtime/trace"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"vawter.tech/fanout/internal/safe"
)

// Task is the canonical unit of work accepted by a [Group]. See [Fn]
// to convert other function signatures to a Task. A Task value should
// never be nil.
//
// The context passed to a Task is the context the Group was created
// with, decorated with a [TaskInfo] value and any context values
// installed by [Middleware]. A Group never cancels it: a failure in one
// task does not interrupt the others.
type Task func(ctx context.Context) error

// A Group launches independent tasks and collects their outcomes.
//
// Tasks are started eagerly: [Group.Go] spawns a goroutine and returns
// without waiting for any previously-launched task, so launch order is
// always the caller's call order while completion order is
// unconstrained. [Group.Wait] blocks until every launched task has
// returned and reports the first failure observed, in completion
// order.
//
// A Group must be created by [New]. All methods are safe for
// concurrent use.
type Group struct {
	ctx       context.Context
	cfg       *config
	eg        errgroup.Group
	panicked  atomic.Pointer[safe.RecoveredError]
	running   atomic.Int64
	traceTask *trace.Task
	endTrace  sync.Once
}

// New returns a Group whose tasks receive a context derived from ctx.
//
// The context is passed through to tasks as-is; the Group does not
// cancel it when a task fails. Callers who want their tasks to react
// to external cancellation should arrange for the tasks themselves to
// observe ctx.
func New(ctx context.Context, opts ...Option) *Group {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.Sanitize()

	ctx, traceTask := trace.NewTask(ctx, cfg.name)
	g := &Group{
		ctx:       ctx,
		cfg:       cfg,
		traceTask: traceTask,
	}
	if cfg.limit > 0 {
		g.eg.SetLimit(cfg.limit)
	}
	return g
}

// Go launches the Task in a new goroutine.
//
// Go never blocks behind the completion of a previously-launched task.
// The one exception is a Group configured with [WithLimit], in which
// case Go blocks until an execution slot is available.
//
// Any error returned by the Task is retained for [Group.Wait]; the
// first one observed wins. The error is reported exactly as the Task
// returned it, with no wrapping or translation.
func (g *Group) Go(fn Task, opts ...TaskOption) {
	taskCfg := applyTaskOpts(g.cfg.taskOpts, opts)

	ctx, traceTask := trace.NewTask(g.ctx, taskCfg.name)

	done := make(chan struct{})
	info := &TaskInfo{
		Done:      done,
		Group:     g,
		GroupName: g.cfg.name,
		Priority:  taskCfg.priority,
		Started:   time.Now(),
		TaskName:  taskCfg.name,
	}
	ctx = context.WithValue(ctx, taskInfoKey{}, info)

	// Middleware setup runs at launch time, in the caller's goroutine,
	// so launch-site data (e.g. caller stacks) is available. Setup must
	// not block; blocking belongs in the returned Invoker.
	invokers := make([]Invoker, len(taskCfg.mw))
	for idx, mw := range taskCfg.mw {
		ctx, invokers[idx] = mw(ctx)
	}

	// Build the invocation chain from the bottom up.
	chain := InvokerCall
	for i := len(invokers) - 1; i >= 0; i-- {
		invoker := invokers[i] // Capture
		nextInChain := chain   // Capture
		chain = func(ctx context.Context, task Task) error {
			return invoker(ctx, func(ctx context.Context) error {
				return nextInChain(ctx, task)
			})
		}
	}

	g.running.Add(1)
	g.eg.Go(func() error {
		defer traceTask.End()
		defer g.running.Add(-1)
		defer close(done)

		err := safe.CallE(func() error {
			return chain(ctx, fn)
		})
		if re, ok := err.(*safe.RecoveredError); ok {
			g.panicked.CompareAndSwap(nil, re)
		}
		info.Error.Store(&err)
		return err
	})
}

// Len returns the number of launched tasks that have not yet returned.
// It is zero after [Group.Wait] has returned.
func (g *Group) Len() int {
	return int(g.running.Load())
}

// Wait blocks until every task launched via [Group.Go] has returned,
// then reports the first non-nil error observed, in completion order.
// Later failures, and the results of tasks that complete after the
// first failure, are discarded.
//
// Wait always drains: even after a failure it does not return until
// all in-flight tasks have run to natural completion, so no background
// work outlives the call.
//
// If a task panicked, Wait re-panics with an error value that wraps
// the recovered panic and carries the panicking goroutine's stack. The
// first panic observed takes precedence over any errors returned by
// other tasks, so a panic is never silently discarded.
func (g *Group) Wait() error {
	err := g.eg.Wait()
	g.endTrace.Do(g.traceTask.End)
	if re := g.panicked.Load(); re != nil {
		panic(re)
	}
	return err
}

// String is for debugging use only.
func (g *Group) String() string {
	return g.cfg.name
}
