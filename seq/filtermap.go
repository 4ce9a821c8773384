// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import (
	"context"
	"iter"
	"slices"

	"vawter.tech/fanout"
)

// kept is the result slot for the filter-map shape: a value plus the
// callback's decision to keep it.
type kept[R any] struct {
	val R
	ok  bool
}

// FilterMap applies the callback to each element in input order and
// returns the values for which the callback reported true, in input
// order. Elements the callback declines are simply absent from the
// result; they leave no hole.
func FilterMap[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) (R, bool),
) []R {
	var out []R
	idx := 0
	for item := range items {
		if r, ok := fn(ctx, idx, item); ok {
			out = append(out, r)
		}
		idx++
	}
	return out
}

// FilterMapE is the failure-capable form of [FilterMap]. It stops at
// the first error without invoking the callback for later elements and
// returns the error exactly as produced, with no partial results.
func FilterMapE[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) (R, bool, error),
) ([]R, error) {
	var out []R
	idx := 0
	for item := range items {
		r, ok, err := fn(ctx, idx, item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
		idx++
	}
	return out, nil
}

// GoFilterMap applies the callback to every element concurrently, one
// task per element, and returns the kept values in input order. The
// result is value-for-value identical to [FilterMap] for any callback
// free of ordering-dependent side effects.
//
// GoFilterMap panics if gating middleware supplied via opts fails,
// since the callback type provides no error path to report through.
func GoFilterMap[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) (R, bool),
	opts ...fanout.TaskOption,
) []R {
	out, err := GoFilterMapE(ctx, items,
		func(ctx context.Context, idx int, item E) (R, bool, error) {
			r, ok := fn(ctx, idx, item)
			return r, ok, nil
		}, opts...)
	mustWait(err)
	return out
}

// GoFilterMapE applies the callback to every element concurrently, one
// task per element. On success the kept values are returned in input
// order, regardless of completion order. On failure the first error
// observed in completion order is returned with no partial results;
// callbacks that are already running are left to finish, and their
// outputs are discarded.
func GoFilterMapE[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) (R, bool, error),
	opts ...fanout.TaskOption,
) ([]R, error) {
	elts := slices.Collect(items)
	if len(elts) == 0 {
		return nil, nil
	}

	slots := make([]kept[R], len(elts))
	err := fanOut(ctx, elts, opts, func(ctx context.Context, idx int, item E) error {
		r, ok, err := fn(ctx, idx, item)
		if err != nil {
			return err
		}
		slots[idx] = kept[R]{val: r, ok: ok}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Declined slots are skipped here, never represented as holes.
	var out []R
	for _, slot := range slots {
		if slot.ok {
			out = append(out, slot.val)
		}
	}
	return out, nil
}
