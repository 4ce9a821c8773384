// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package fanout

import "context"

// Adaptable is the set of function signatures accepted by [Fn].
type Adaptable interface {
	func() | func() error |
		func(context.Context) | func(context.Context) error |
		Task
}

// Fn adapts various function signatures to be compatible with a
// [Group].
func Fn[A Adaptable](fn A) Task {
	// This would be more optimal if:
	// https://github.com/golang/go/issues/59591
	a := any(fn)
	switch t := a.(type) {
	case func():
		return func(context.Context) error {
			t()
			return nil
		}
	case func() error:
		return func(context.Context) error {
			return t()
		}
	case func(context.Context):
		return func(ctx context.Context) error {
			t(ctx)
			return nil
		}
	case func(context.Context) error:
		return func(ctx context.Context) error {
			return t(ctx)
		}
	}
	return a.(Task)
}

// Go is a generic helper that adapts the function with [Fn] before
// launching it via [Group.Go].
func Go[A Adaptable](g *Group, fn A, opts ...TaskOption) {
	g.Go(Fn(fn), opts...)
}
