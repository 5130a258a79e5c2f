/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package concurrency

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/microsoft/hostinspector/pkg/testutil"
)

const defaultSerialExecutorTestTimeout = 10 * time.Second

func TestSerialExecutorRunsTasksInPostOrder(t *testing.T) {
	t.Parallel()

	ctx, cancel := testutil.GetTestContext(t, defaultSerialExecutorTestTimeout)
	defer cancel()

	e := NewSerialExecutor(ctx, logr.Discard())

	const taskCount = 500
	var results []int // Only touched on the executor goroutine.
	for i := 0; i < taskCount; i++ {
		i := i
		require.True(t, e.Post(func() { results = append(results, i) }))
	}

	require.NoError(t, e.Barrier(ctx))

	var snapshot []int
	require.NoError(t, e.Submit(ctx, func() { snapshot = append(snapshot, results...) }))
	require.Len(t, snapshot, taskCount)
	for i, v := range snapshot {
		require.Equal(t, i, v)
	}
}

func TestSerialExecutorPostFromManyGoroutines(t *testing.T) {
	t.Parallel()

	ctx, cancel := testutil.GetTestContext(t, defaultSerialExecutorTestTimeout)
	defer cancel()

	e := NewSerialExecutor(ctx, logr.Discard())

	const writers = 8
	const perWriter = 100
	counter := 0

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				e.Post(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	var final int
	require.NoError(t, e.Submit(ctx, func() { final = counter }))
	require.Equal(t, writers*perWriter, final)
}

func TestSerialExecutorSurvivesPanickingTask(t *testing.T) {
	t.Parallel()

	ctx, cancel := testutil.GetTestContext(t, defaultSerialExecutorTestTimeout)
	defer cancel()

	e := NewSerialExecutor(ctx, logr.Discard())

	e.Post(func() { panic("task failure") })

	ran := false
	require.NoError(t, e.Submit(ctx, func() { ran = true }))
	require.True(t, ran)
}

func TestSerialExecutorStopsWithContext(t *testing.T) {
	t.Parallel()

	testCtx, testCancel := testutil.GetTestContext(t, defaultSerialExecutorTestTimeout)
	defer testCancel()

	lifetimeCtx, cancel := context.WithCancel(testCtx)
	e := NewSerialExecutor(lifetimeCtx, logr.Discard())
	cancel()

	select {
	case <-e.Done():
	case <-testCtx.Done():
		require.Fail(t, "executor did not stop after its context was cancelled")
	}

	require.False(t, e.Post(func() {}))
	require.ErrorIs(t, e.Barrier(testCtx), ErrExecutorStopped)
}

func TestSerialExecutorPendingCountsWaitingTasks(t *testing.T) {
	t.Parallel()

	ctx, cancel := testutil.GetTestContext(t, defaultSerialExecutorTestTimeout)
	defer cancel()

	e := NewSerialExecutor(ctx, logr.Discard())

	started := make(chan struct{})
	release := make(chan struct{})
	e.Post(func() {
		close(started)
		<-release
	})
	<-started

	const waiting = 3
	for i := 0; i < waiting; i++ {
		e.Post(func() {})
	}
	require.Eventually(t, func() bool { return e.Pending() == waiting }, 5*time.Second, 10*time.Millisecond)

	close(release)
	require.NoError(t, e.Barrier(ctx))
	require.Equal(t, 0, e.Pending())
}
