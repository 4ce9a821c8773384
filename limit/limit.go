// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package limit provides [fanout.Middleware] to impose execution
// limits on tasks.
//
// The middlewares in this package gate task execution, not task
// launch: a [fanout.Group] still spawns every task immediately, and
// the gate is applied inside the task's own goroutine. Attach them
// using [fanout.WithTaskOptions] during Group construction or
// [fanout.TaskMiddleware] per task.
package limit

import (
	"context"
	"errors"
	"runtime/trace"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
	"vawter.tech/fanout"
)

// WithMaxConcurrency limits the number of tasks executing at any
// moment. Tasks beyond the limit remain launched but block before
// their body runs. A task blocked behind the gate returns the
// context's error if the context is canceled while waiting.
func WithMaxConcurrency(limit int64) fanout.Middleware {
	if limit <= 0 {
		panic(errors.New("limit must be greater than zero"))
	}
	sem := semaphore.NewWeighted(limit)
	return func(ctx context.Context) (context.Context, fanout.Invoker) {
		return ctx, func(ctx context.Context, task fanout.Task) error {
			// Fast-path: a concurrency slot is available.
			if !sem.TryAcquire(1) {
				region := trace.StartRegion(ctx, "concurrency wait")
				err := sem.Acquire(ctx, 1)
				region.End()
				if err != nil {
					return err
				}
			}
			defer sem.Release(1)
			return task(ctx)
		}
	}
}

// WithMaxRate is a wrapper around a [rate.Limiter] that paces task
// execution. A task blocked behind the limiter returns the context's
// error if the context is canceled while waiting.
func WithMaxRate(r float64, b int) fanout.Middleware {
	l := rate.NewLimiter(rate.Limit(r), b)
	return func(ctx context.Context) (context.Context, fanout.Invoker) {
		return ctx, func(ctx context.Context, task fanout.Task) error {
			// Fast-path: there's capacity.
			if !l.Allow() {
				region := trace.StartRegion(ctx, "rate limit wait")
				err := l.Wait(ctx)
				region.End()
				if err != nil {
					return err
				}
			}
			return task(ctx)
		}
	}
}
