// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package linger

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"vawter.tech/fanout"
)

const sampleDepth = 2

func TestRecorder(t *testing.T) {
	r := require.New(t)

	rec := NewRecorder(sampleDepth)
	g := fanout.New(t.Context(),
		fanout.WithTaskOptions(
			fanout.TaskMiddleware(rec.Middleware),
		),
	)

	// The stack is sampled at launch, so the task is visible to the
	// recorder from the moment Go returns until the task exits.
	checked := make(chan struct{})
	g.Go(func(context.Context) error {
		defer close(checked)
		checkRecorder(r, rec, "linger.TestRecorder")
		return nil
	})
	<-checked
	r.NoError(g.Wait())

	// The task is untracked once it has returned.
	r.Empty(rec.Callers())
}

func TestRecorderViaHelper(t *testing.T) {
	r := require.New(t)

	rec := NewRecorder(sampleDepth)
	g := fanout.New(t.Context(),
		fanout.WithTaskOptions(
			fanout.TaskMiddleware(rec.Middleware),
		),
	)

	// The generic helper adds one frame between the test and Group.Go,
	// so the test function still appears within the sampled depth.
	fanout.Go(g, func() {
		checkRecorder(r, rec, "linger.TestRecorderViaHelper")
	})
	r.NoError(g.Wait())

	r.Empty(rec.Callers())
}

func TestRecorderPerTask(t *testing.T) {
	r := require.New(t)

	rec := NewRecorder(sampleDepth)
	g := fanout.New(t.Context())

	g.Go(func(context.Context) error {
		checkRecorder(r, rec, "linger.TestRecorderPerTask")
		return nil
	}, fanout.TaskMiddleware(rec.Middleware))
	r.NoError(g.Wait())

	r.Empty(rec.Callers())
}

func checkRecorder(r *require.Assertions, rec *Recorder, where string) {
	sample := rec.Callers()
	r.Len(sample, 1) // One active task.
	r.Len(sample[0], sampleDepth)
	frames := runtime.CallersFrames(sample[0])
	for {
		frame, more := frames.Next()
		if strings.HasSuffix(frame.Function, where) {
			break
		}
		if !more {
			r.Failf("missing frame",
				"did not find expected frame %s: check callersOffset constant", where)
		}
	}
}
