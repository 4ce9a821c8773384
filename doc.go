// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package fanout provides an eager-launch task group whose results are
// collected independently of completion order.
//
// A [Group] launches one goroutine per task. Launch order is always
// the caller's call order, completion order is unconstrained, and
// [Group.Wait] does not return until every launched task has run to
// completion. When tasks fail, Wait reports the first error observed
// in completion order and discards the rest; in-flight tasks are never
// interrupted.
//
//	g := fanout.New(ctx)
//	g.Go(func(ctx context.Context) error { return fetch(ctx, a) })
//	g.Go(func(ctx context.Context) error { return fetch(ctx, b) })
//	if err := g.Wait(); err != nil { ... }
//
// # Running tasks
//
// Tasks are ordinary Go functions. The generic [Go] package-level
// function accepts any [Adaptable] function signature, from a bare
// func() to a full [Task], so callers rarely need to construct a
// [Task] value directly.
//
// # Error handling
//
// A Group deliberately produces no errors of its own. The error
// returned by [Group.Wait] is exactly the first error returned by a
// task, unwrapped and untranslated. There is no aggregation: callers
// who need every failure should record errors inside their tasks.
//
// # Panic recovery
//
// A panicking task does not take down its own goroutine silently.
// The panic is recovered, together with the panicking goroutine's
// stack, and re-raised from [Group.Wait] as an error value wrapping
// the original panic, so [errors.Is] and [errors.As] work against it
// after a recover. A panic takes precedence over errors returned by
// other tasks.
//
// # Scheduling hints
//
// [WithPriority] attaches an opaque hint to a task. The Group passes
// the hint through to [Middleware] via [TaskInfo] without inspecting
// it; it has no effect on launch order, completion handling, or error
// semantics.
//
// # Middleware
//
// [Middleware] functions wrap task execution and can be attached
// group-wide via [WithTaskOptions] or per-task via [TaskMiddleware].
// The [vawter.tech/fanout/limit] package ships ready-made middlewares
// for concurrency and rate gating; because they gate execution rather
// than launch, they preserve the Group's non-blocking launch
// guarantee.
//
// # Tracing
//
// Every Group and every task creates a [runtime/trace.Task], so
// fan-out structure is visible in Go execution traces with no extra
// code. Use [WithName] and [TaskName] to give groups and tasks
// descriptive names in the trace output.
//
// # Ordered sequence processing
//
// The [vawter.tech/fanout/seq] package builds ordered iteration
// combinators on top of Group: for-each, map, filter-map, and flat-map
// over [iter.Seq] sequences, each in a sequential and a concurrent
// flavor. The concurrent flavors fan out one task per element and
// reassemble results in input order, so concurrency is invisible in
// the output.
//
// # Testing
//
// The [vawter.tech/fanout/linger] package provides helpers to detect
// tasks that outlive their Group during tests.
package fanout
