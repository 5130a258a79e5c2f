/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package concurrency

import (
	"context"
	"errors"

	"github.com/go-logr/logr"
	"github.com/smallnest/chanx"

	"github.com/microsoft/hostinspector/pkg/resiliency"
)

const serialExecutorInitialCapacity = 16

var ErrExecutorStopped = errors.New("executor is stopped")

// SerialExecutor runs posted tasks one at a time, in the order they were posted, on a single goroutine.
// Objects that are not safe for concurrent use can be confined to the executor goroutine:
// as long as every access happens inside a posted task, no locking is needed.
//
// Posting never blocks for long (the task queue is unbounded).
// The executor stops when its lifetime context is cancelled; tasks that have not started by then are discarded.
type SerialExecutor struct {
	lifetimeCtx context.Context
	queue       *chanx.UnboundedChan[func()]
	done        chan struct{}
	log         logr.Logger
}

func NewSerialExecutor(lifetimeCtx context.Context, log logr.Logger) *SerialExecutor {
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	e := &SerialExecutor{
		lifetimeCtx: lifetimeCtx,
		queue:       chanx.NewUnboundedChan[func()](lifetimeCtx, serialExecutorInitialCapacity),
		done:        make(chan struct{}),
		log:         log,
	}

	go e.run()

	return e
}

// Post schedules the task for execution. Returns false if the executor is stopped.
func (e *SerialExecutor) Post(task func()) bool {
	if task == nil {
		return true
	}

	if e.lifetimeCtx.Err() != nil {
		return false
	}

	select {
	case e.queue.In <- task:
		return true
	case <-e.lifetimeCtx.Done():
		return false
	}
}

// Submit schedules the task and waits until it has run.
// Must not be called from a task running on the same executor (it would deadlock).
func (e *SerialExecutor) Submit(ctx context.Context, task func()) error {
	completed := make(chan struct{})
	posted := e.Post(func() {
		defer close(completed)
		task()
	})
	if !posted {
		return ErrExecutorStopped
	}

	select {
	case <-completed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		select {
		case <-completed:
			return nil
		default:
			return ErrExecutorStopped
		}
	}
}

// Barrier waits until every task posted before the call has run.
func (e *SerialExecutor) Barrier(ctx context.Context) error {
	return e.Submit(ctx, func() {})
}

// Done returns a channel that is closed when the executor goroutine exits.
func (e *SerialExecutor) Done() <-chan struct{} {
	return e.done
}

// Pending returns the approximate number of tasks waiting to run.
func (e *SerialExecutor) Pending() int {
	return e.queue.Len()
}

func (e *SerialExecutor) run() {
	defer close(e.done)

	for task := range e.queue.Out {
		if e.lifetimeCtx.Err() != nil {
			return
		}
		e.runTask(task)
	}
}

func (e *SerialExecutor) runTask(task func()) {
	defer func() {
		if panicVal := recover(); panicVal != nil {
			_ = resiliency.MakePanicError(panicVal, e.log, "Pending", e.Pending())
		}
	}()

	task()
}
