// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"vawter.tech/fanout"
)

func TestForEachDeterministicOrder(t *testing.T) {
	r := require.New(t)

	var log []int
	ForEach(t.Context(), slices.Values([]int{0, 1, 2, 3, 4}),
		func(_ context.Context, _ int, v int) {
			log = append(log, v)
		},
	)
	r.Equal([]int{0, 1, 2, 3, 4}, log)
}

func TestForEachIndex(t *testing.T) {
	r := require.New(t)

	var idxs []int
	ForEach(t.Context(), slices.Values([]string{"a", "b", "c"}),
		func(_ context.Context, idx int, _ string) {
			idxs = append(idxs, idx)
		},
	)
	r.Equal([]int{0, 1, 2}, idxs)
}

func TestForEachEmpty(t *testing.T) {
	ForEach(t.Context(), slices.Values([]int{}),
		func(_ context.Context, _ int, _ int) {
			t.Fatal("should not be called")
		},
	)
}

func TestForEachEStopsAtFirstError(t *testing.T) {
	r := require.New(t)

	errBoom := errors.New("boom")

	var log []int
	err := ForEachE(t.Context(), slices.Values([]int{0, 1, 2, 3, 4}),
		func(_ context.Context, _ int, v int) error {
			if v == 3 {
				return errBoom
			}
			log = append(log, v)
			return nil
		},
	)
	r.ErrorIs(err, errBoom)
	// Elements before the failure ran in order; element 4 was never
	// visited.
	r.Equal([]int{0, 1, 2}, log)
}

func TestForEachEEmpty(t *testing.T) {
	r := require.New(t)

	err := ForEachE(t.Context(), slices.Values([]int{}),
		func(_ context.Context, _ int, _ int) error {
			t.Fatal("should not be called")
			return nil
		},
	)
	r.NoError(err)
}

func TestGoForEachPermutation(t *testing.T) {
	r := require.New(t)

	var mu sync.Mutex
	var log []int
	GoForEach(t.Context(), slices.Values([]int{0, 1, 2, 3, 4}),
		func(_ context.Context, _ int, v int) {
			mu.Lock()
			defer mu.Unlock()
			log = append(log, v)
		},
	)

	// Same multiset as the sequential log; order unconstrained.
	slices.Sort(log)
	r.Equal([]int{0, 1, 2, 3, 4}, log)
}

func TestGoForEachIndex(t *testing.T) {
	r := require.New(t)

	var mu sync.Mutex
	idxMap := make(map[int]string)
	GoForEach(t.Context(), slices.Values([]string{"x", "y", "z"}),
		func(_ context.Context, idx int, v string) {
			mu.Lock()
			defer mu.Unlock()
			idxMap[idx] = v
		},
	)
	r.Equal(map[int]string{0: "x", 1: "y", 2: "z"}, idxMap)
}

func TestGoForEachEmpty(t *testing.T) {
	GoForEach(t.Context(), slices.Values([]int{}),
		func(_ context.Context, _ int, _ int) {
			t.Fatal("should not be called")
		},
	)
}

func TestGoForEachPanic(t *testing.T) {
	require.Panics(t, func() {
		GoForEach(t.Context(), slices.Values([]int{1, 2, 3}),
			func(_ context.Context, _ int, v int) {
				if v == 2 {
					panic("boom")
				}
			},
		)
	})
}

func TestGoForEachEFirstError(t *testing.T) {
	r := require.New(t)

	errBoom := errors.New("boom")

	err := GoForEachE(t.Context(), slices.Values([]int{0, 1, 2, 3, 4}),
		func(_ context.Context, _ int, v int) error {
			if v == 3 {
				return errBoom
			}
			return nil
		},
	)
	r.ErrorIs(err, errBoom)
}

func TestGoForEachEFirstErrorByCompletion(t *testing.T) {
	r := require.New(t)

	errSlow := errors.New("slow failure")
	errFast := errors.New("fast failure")

	// Element 0 is launched first but fails last; the error surfaced
	// is the first observed in completion order.
	fastDone := make(chan struct{})
	err := GoForEachE(t.Context(), slices.Values([]int{0, 1}),
		func(_ context.Context, _ int, v int) error {
			if v == 0 {
				<-fastDone
				return errSlow
			}
			defer close(fastDone)
			return errFast
		},
	)
	r.ErrorIs(err, errFast)
	r.NotErrorIs(err, errSlow)
}

func TestGoForEachEDrains(t *testing.T) {
	r := require.New(t)

	errBoom := errors.New("boom")

	// Every callback runs to completion even after the failure has
	// been observed.
	var started sync.WaitGroup
	started.Add(5)
	err := GoForEachE(t.Context(), slices.Values([]int{0, 1, 2, 3, 4}),
		func(_ context.Context, _ int, v int) error {
			started.Done()
			if v == 2 {
				return errBoom
			}
			return nil
		},
	)
	r.ErrorIs(err, errBoom)
	started.Wait()
}

func TestGoForEachEEmpty(t *testing.T) {
	r := require.New(t)

	err := GoForEachE(t.Context(), slices.Values([]int{}),
		func(_ context.Context, _ int, _ int) error {
			t.Fatal("should not be called")
			return nil
		},
	)
	r.NoError(err)
}

func TestGoForEachPriorityHint(t *testing.T) {
	r := require.New(t)

	var mu sync.Mutex
	var hints []any
	observe := func(ctx context.Context) (context.Context, fanout.Invoker) {
		return ctx, func(ctx context.Context, task fanout.Task) error {
			if info, ok := fanout.TaskInfoFrom(ctx); ok {
				mu.Lock()
				hints = append(hints, info.Priority)
				mu.Unlock()
			}
			return task(ctx)
		}
	}

	GoForEach(t.Context(), slices.Values([]int{1, 2, 3}),
		func(_ context.Context, _ int, _ int) {},
		fanout.WithPriority("background"),
		fanout.TaskMiddleware(observe),
	)

	// The hint reaches every task's middleware unmodified.
	r.Equal([]any{"background", "background", "background"}, hints)
}

// yieldN returns an iter.Seq that yields n items with their index as
// the value.
func yieldN(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range n {
			if !yield(i) {
				return
			}
		}
	}
}

func TestForEachYieldN(t *testing.T) {
	r := require.New(t)

	var order []int
	ForEach(t.Context(), yieldN(5),
		func(_ context.Context, idx int, _ int) {
			order = append(order, idx)
		},
	)
	r.Equal([]int{0, 1, 2, 3, 4}, order)
}
