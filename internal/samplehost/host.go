/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package samplehost provides a minimal application Host that can be inspected.
// It runs one instance at a time; reloading replaces the instance, which debugger frontends see as an instance swap.
package samplehost

import (
	"sync"

	"github.com/go-logr/logr"

	"github.com/microsoft/hostinspector/internal/inspector"
	"github.com/microsoft/hostinspector/pkg/concurrency"
	"github.com/microsoft/hostinspector/pkg/pointers"
)

type Host struct {
	metadata inspector.HostTargetMetadata
	target   *inspector.HostTarget
	log      logr.Logger

	lock          *sync.Mutex
	generation    int
	instance      *inspector.InstanceTarget
	pausedMessage *string
}

var _ inspector.HostTargetDelegate = (*Host)(nil)

func New(metadata inspector.HostTargetMetadata, executor *concurrency.SerialExecutor, log logr.Logger) *Host {
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	h := &Host{
		metadata: metadata,
		log:      log,
		lock:     &sync.Mutex{},
	}
	h.target = inspector.NewHostTarget(h, executor, log.WithName("HostTarget"))
	return h
}

// Target returns the inspectable side of the Host.
func (h *Host) Target() *inspector.HostTarget {
	return h.target
}

// Start runs the first instance.
func (h *Host) Start() {
	h.startInstance()
}

// Stop destroys the current instance, if any.
func (h *Host) Stop() {
	h.lock.Lock()
	instance := h.instance
	h.instance = nil
	h.lock.Unlock()

	if instance != nil {
		h.target.UnregisterInstance(instance)
	}
}

// Generation returns the number of instances started so far.
func (h *Host) Generation() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.generation
}

// PausedMessage returns the "paused in debugger" message currently shown, if any.
func (h *Host) PausedMessage() (string, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()
	return pointers.GetValueOrDefault(h.pausedMessage, ""), h.pausedMessage != nil
}

func (h *Host) Metadata() inspector.HostTargetMetadata {
	return h.metadata
}

func (h *Host) OnReload(req inspector.ReloadRequest) error {
	h.log.Info("Reloading", "IgnoreCache", pointers.TrueValue(req.IgnoreCache))
	h.startInstance()
	return nil
}

func (h *Host) OnSetPausedInDebuggerMessage(req inspector.PausedInDebuggerMessageRequest) error {
	h.lock.Lock()
	h.pausedMessage = pointers.Duplicate(req.Message)
	h.lock.Unlock()

	if req.Message != nil {
		h.log.Info("Paused in debugger", "Message", *req.Message)
	} else {
		h.log.V(1).Info("Resumed")
	}
	return nil
}

// Replaces the current instance with a new one.
func (h *Host) startInstance() {
	h.lock.Lock()
	h.generation++
	delegate := &instanceDelegate{
		name: instanceName(h.metadata, h.generation),
		log:  h.log.WithValues("Generation", h.generation),
	}
	h.lock.Unlock()

	instance := h.target.RegisterInstance(delegate)

	h.lock.Lock()
	h.instance = instance
	h.lock.Unlock()
}
