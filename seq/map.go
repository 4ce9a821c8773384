// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import (
	"context"
	"iter"
	"slices"

	"vawter.tech/fanout"
)

// Map applies the callback to each element in input order and returns
// one output per input, in the same order.
func Map[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) R,
) []R {
	var out []R
	idx := 0
	for item := range items {
		out = append(out, fn(ctx, idx, item))
		idx++
	}
	return out
}

// MapE applies the callback to each element in input order, stopping
// at the first error. On success it returns one output per input, in
// input order; on failure it returns the callback's error exactly as
// produced, with no partial results.
func MapE[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) (R, error),
) ([]R, error) {
	var out []R
	idx := 0
	for item := range items {
		r, err := fn(ctx, idx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
		idx++
	}
	return out, nil
}

// GoMap applies the callback to every element concurrently, one task
// per element, and returns the outputs in input order. The result is
// value-for-value identical to [Map] for any callback free of
// ordering-dependent side effects.
//
// GoMap panics if gating middleware supplied via opts fails, since the
// callback type provides no error path to report through.
func GoMap[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) R,
	opts ...fanout.TaskOption,
) []R {
	out, err := GoMapE(ctx, items,
		func(ctx context.Context, idx int, item E) (R, error) {
			return fn(ctx, idx, item), nil
		}, opts...)
	mustWait(err)
	return out
}

// GoMapE applies the callback to every element concurrently, one task
// per element. On success the outputs are returned in input order,
// regardless of completion order. On failure the first error observed
// in completion order is returned with no partial results; callbacks
// that are already running are left to finish, and their outputs are
// discarded.
func GoMapE[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) (R, error),
	opts ...fanout.TaskOption,
) ([]R, error) {
	elts := slices.Collect(items)
	if len(elts) == 0 {
		return nil, nil
	}

	// Each task owns exactly one slot, so the writes need no lock; the
	// happens-before edge is supplied by Group.Wait.
	slots := make([]R, len(elts))
	err := fanOut(ctx, elts, opts, func(ctx context.Context, idx int, item E) error {
		r, err := fn(ctx, idx, item)
		if err != nil {
			return err
		}
		slots[idx] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slots, nil
}
