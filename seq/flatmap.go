// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import (
	"context"
	"iter"
	"slices"

	"vawter.tech/fanout"
)

// FlatMap applies the callback to each element in input order and
// concatenates the returned slices. The concatenation preserves both
// the input-element order and each returned slice's own internal
// order; empty and nil slices contribute nothing.
func FlatMap[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) []R,
) []R {
	var out []R
	idx := 0
	for item := range items {
		out = append(out, fn(ctx, idx, item)...)
		idx++
	}
	return out
}

// FlatMapE is the failure-capable form of [FlatMap]. It stops at the
// first error without invoking the callback for later elements and
// returns the error exactly as produced, with no partial results.
func FlatMapE[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) ([]R, error),
) ([]R, error) {
	var out []R
	idx := 0
	for item := range items {
		rs, err := fn(ctx, idx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
		idx++
	}
	return out, nil
}

// GoFlatMap applies the callback to every element concurrently, one
// task per element, and concatenates the returned slices in input
// order. The result is value-for-value identical to [FlatMap] for any
// callback free of ordering-dependent side effects.
//
// GoFlatMap panics if gating middleware supplied via opts fails, since
// the callback type provides no error path to report through.
func GoFlatMap[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) []R,
	opts ...fanout.TaskOption,
) []R {
	out, err := GoFlatMapE(ctx, items,
		func(ctx context.Context, idx int, item E) ([]R, error) {
			return fn(ctx, idx, item), nil
		}, opts...)
	mustWait(err)
	return out
}

// GoFlatMapE applies the callback to every element concurrently, one
// task per element. On success the returned slices are concatenated in
// input order, each with its internal order intact, regardless of
// completion order. On failure the first error observed in completion
// order is returned with no partial results; callbacks that are
// already running are left to finish, and their outputs are discarded.
func GoFlatMapE[E, R any](
	ctx context.Context,
	items iter.Seq[E],
	fn func(ctx context.Context, idx int, item E) ([]R, error),
	opts ...fanout.TaskOption,
) ([]R, error) {
	elts := slices.Collect(items)
	if len(elts) == 0 {
		return nil, nil
	}

	slots := make([][]R, len(elts))
	err := fanOut(ctx, elts, opts, func(ctx context.Context, idx int, item E) error {
		rs, err := fn(ctx, idx, item)
		if err != nil {
			return err
		}
		slots[idx] = rs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Concat(slots...), nil
}
