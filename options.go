// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package fanout

import (
	"context"
	"slices"
)

// An Invoker executes a task on behalf of a [Middleware]. The task
// argument represents the remainder of the invocation chain; an
// Invoker that declines to call it suppresses the task entirely.
type Invoker func(ctx context.Context, task Task) error

// InvokerCall executes the task directly. It is the root of every
// invocation chain.
func InvokerCall(ctx context.Context, task Task) error {
	return task(ctx)
}

// InvokerDrop discards the task without executing it.
func InvokerDrop(context.Context, Task) error {
	return nil
}

// InvokerErr returns an Invoker that reports the given error instead
// of executing the task.
func InvokerErr(err error) Invoker {
	return func(context.Context, Task) error {
		return err
	}
}

// Middleware wraps the execution of a task.
//
// A Middleware is called once per task, at launch time, in the
// goroutine calling [Group.Go]. It may decorate the context that the
// task will eventually receive and returns the [Invoker] that will run
// in the task's goroutine. The setup phase must not block; any
// waiting (e.g. for a rate limiter) belongs in the Invoker.
//
// The [TaskInfo] for the task being launched is available from the
// context via [TaskInfoFrom], including any [WithPriority] hint.
type Middleware func(ctx context.Context) (context.Context, Invoker)

// config is the merged result of the Options passed to [New].
type config struct {
	limit    int
	name     string
	taskOpts []TaskOption
}

func (c *config) Sanitize() {
	if c.name == "" {
		c.name = "fanout"
	}
}

// An Option modifies the configuration of a [Group] during [New].
type Option func(*config)

// WithLimit caps the number of simultaneously-executing tasks. When
// the limit is reached, [Group.Go] blocks until a running task
// returns.
//
// This trades away the non-blocking launch guarantee, so it is not
// used by the combinators in the [vawter.tech/fanout/seq] package;
// prefer the execution-gating middleware in [vawter.tech/fanout/limit]
// when launch order must remain independent of completion order.
func WithLimit(n int) Option {
	return func(c *config) {
		c.limit = n
	}
}

// WithName assigns a name to the Group for use in [runtime/trace]
// output.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithTaskOptions applies the given TaskOptions to every task launched
// by the Group, before any options passed to [Group.Go].
func WithTaskOptions(opts ...TaskOption) Option {
	return func(c *config) {
		c.taskOpts = append(c.taskOpts, opts...)
	}
}

// taskConfig is the merged result of the TaskOptions in effect for a
// single task launch.
type taskConfig struct {
	mw       []Middleware
	name     string
	priority any
}

func (c *taskConfig) Sanitize() {
	if c.name == "" {
		c.name = "task"
	}
}

// A TaskOption modifies the execution of a single task passed to
// [Group.Go].
type TaskOption func(*taskConfig)

// TaskMiddleware attaches [Middleware] to the task. Middleware is
// applied in declaration order: the first Middleware listed is the
// outermost wrapper.
func TaskMiddleware(mw ...Middleware) TaskOption {
	return func(c *taskConfig) {
		c.mw = append(c.mw, mw...)
	}
}

// TaskName assigns a name to the task for use in [runtime/trace]
// output.
func TaskName(name string) TaskOption {
	return func(c *taskConfig) {
		c.name = name
	}
}

// WithPriority attaches an opaque scheduling hint to the task. The
// hint is recorded in the task's [TaskInfo], where [Middleware] (e.g.
// a priority-aware gate) may act on it. The Group itself assigns no
// meaning to the value: it affects neither ordering nor error
// semantics.
func WithPriority(hint any) TaskOption {
	return func(c *taskConfig) {
		c.priority = hint
	}
}

// applyTaskOpts merges group-level and per-launch TaskOptions.
func applyTaskOpts(base, opts []TaskOption) *taskConfig {
	cfg := &taskConfig{}
	for _, opt := range slices.Concat(base, opts) {
		opt(cfg)
	}
	cfg.Sanitize()
	return cfg
}
