// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import (
	"context"
	"iter"
	"slices"

	"vawter.tech/fanout"
)

// ForEach invokes the callback once per element, in input order. The
// callback for one element returns, side effects included, before the
// callback for the next element begins.
func ForEach[E any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E),
) {
	idx := 0
	for item := range items {
		fn(ctx, idx, item)
		idx++
	}
}

// ForEachE invokes the callback once per element, in input order,
// stopping at the first error. The callback is not invoked for any
// element after the failing one, and the error is returned exactly as
// the callback produced it.
func ForEachE[E any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) error,
) error {
	idx := 0
	for item := range items {
		if err := fn(ctx, idx, item); err != nil {
			return err
		}
		idx++
	}
	return nil
}

// GoForEach launches one task per element and waits for all of them.
// Side effects performed by different callbacks may interleave
// arbitrarily; callers needing deterministic ordering should use
// [ForEach].
//
// GoForEach panics if gating middleware supplied via opts fails, since
// the callback type provides no error path to report through.
func GoForEach[E any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E),
	opts ...fanout.TaskOption,
) {
	elts := slices.Collect(items)
	if len(elts) == 0 {
		return
	}
	mustWait(fanOut(ctx, elts, opts, func(ctx context.Context, idx int, item E) error {
		fn(ctx, idx, item)
		return nil
	}))
}

// GoForEachE launches one task per element and waits for all of them,
// even after a failure: a callback that has already started always
// runs to completion, and its outcome is discarded once an earlier
// failure has been observed. The returned error is the first one
// observed in completion order, which need not belong to the lowest
// failing input position.
func GoForEachE[E any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) error,
	opts ...fanout.TaskOption,
) error {
	elts := slices.Collect(items)
	if len(elts) == 0 {
		return nil
	}
	return fanOut(ctx, elts, opts, func(ctx context.Context, idx int, item E) error {
		return fn(ctx, idx, item)
	})
}
