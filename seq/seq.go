// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package seq provides ordered iteration combinators over [iter.Seq]
// sequences: for-each, map, filter-map, and flat-map, each in a
// sequential and a concurrent flavor.
//
// # Naming
//
// Unprefixed functions ([ForEach], [Map], [FilterMap], [FlatMap]) run
// strictly in input order: the callback for element N returns before
// the callback for element N+1 begins. Functions prefixed Go
// ([GoForEach], [GoMap], [GoFilterMap], [GoFlatMap]) launch one task
// per element on a [fanout.Group]; tasks complete in any order, and
// the result is reassembled in input order before it is returned. A
// successful concurrent call returns exactly what the corresponding
// sequential call would have returned.
//
// Functions suffixed E accept a callback that can fail. The sequential
// E-variants stop at the first error without invoking the callback for
// any later element. The concurrent E-variants report the first error
// observed in completion order, which is not necessarily the error at
// the lowest input position, and return no partial results; tasks that
// are already running are left to finish, and their outcomes are
// discarded.
//
// # Callbacks
//
// Every callback receives the context passed to the combinator and the
// zero-based position of its element in the input sequence. The
// combinators never cancel the context and provide no mutual exclusion
// between concurrently-running callbacks: callbacks that share mutable
// state must synchronize on their own.
//
// # Scheduling hints
//
// The concurrent combinators accept [fanout.TaskOption] values, such
// as a [fanout.WithPriority] hint or gating middleware from the
// [vawter.tech/fanout/limit] package. They are passed through to
// [fanout.Group.Go] unmodified and do not affect ordering or error
// semantics.
package seq

import (
	"context"

	"vawter.tech/fanout"
)

// fanOut is the concurrent skeleton shared by the Go-prefixed
// combinators. It launches one task per element in input order and
// waits for all of them, reporting the first error in completion
// order. The run callback owns slot idx of whatever result container
// the caller allocated; no two invocations share a slot.
func fanOut[E any](
	ctx context.Context,
	elts []E,
	opts []fanout.TaskOption,
	run func(ctx context.Context, idx int, item E) error,
) error {
	g := fanout.New(ctx, fanout.WithName("seq"))
	for idx, item := range elts {
		g.Go(func(ctx context.Context) error {
			return run(ctx, idx, item)
		}, opts...)
	}
	return g.Wait()
}

// mustWait panics on an error from a Group whose tasks have no error
// path of their own. Only gating middleware can produce one.
func mustWait(err error) {
	if err != nil {
		panic(err)
	}
}
