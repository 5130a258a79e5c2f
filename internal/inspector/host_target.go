/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package inspector

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/microsoft/hostinspector/pkg/concurrency"
)

// HostTarget is the inspectable side of an application Host. Frontends connect to it and get a HostTargetSession each;
// the Host registers the Instance it is currently running, if any.
//
// All session and instance bookkeeping happens on the executor goroutine. Public methods may be called from any goroutine.
type HostTarget struct {
	delegate   HostTargetDelegate
	executor   *concurrency.SerialExecutor
	controller *hostTargetController
	log        logr.Logger
	queueStats metric.Registration

	// Only accessed on the executor goroutine.
	sessions        map[string]*HostTargetSession
	currentInstance *InstanceTarget
	closed          bool
}

func NewHostTarget(delegate HostTargetDelegate, executor *concurrency.SerialExecutor, log logr.Logger) *HostTarget {
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	ht := &HostTarget{
		delegate: delegate,
		executor: executor,
		log:      log,
		sessions: make(map[string]*HostTargetSession),
	}
	ht.controller = &hostTargetController{target: ht}

	queueStats, err := observeExecutorQueue(executor)
	if err != nil {
		log.Error(err, "Could not report host executor queue length")
	} else {
		ht.queueStats = queueStats
	}
	return ht
}

// Metadata returns the description of the Host provided by the delegate.
func (ht *HostTarget) Metadata() HostTargetMetadata {
	return ht.delegate.Metadata()
}

// Connect creates a new debugging session. All outbound messages of the session are delivered to remote.
// If the metadata has no session ID, a new one is generated.
func (ht *HostTarget) Connect(remote RemoteConnection, metadata SessionMetadata) *HostTargetSession {
	if metadata.SessionID == "" {
		metadata.SessionID = uuid.NewString()
	}

	session := newHostTargetSession(ht, remote, metadata)

	posted := ht.executor.Post(func() {
		if ht.closed {
			session.disconnect()
			return
		}

		session.hostAgent = NewHostAgent(
			session.sendToFrontend,
			ht.controller,
			metadata,
			session.state,
			WithLogger(ht.log.WithValues("Session", metadata.SessionID)),
		)
		ht.sessions[metadata.SessionID] = session
		activeSessionsCounter.Add(context.Background(), 1)

		if ht.currentInstance != nil {
			agent := ht.currentInstance.createAgent(session)
			session.hostAgent.SetCurrentInstanceAgent(agent)
		}

		ht.log.V(1).Info("Session connected",
			"Session", metadata.SessionID,
			"Client", metadata.ClientName,
			"Reason", metadata.ConnectReason,
		)
	})
	if !posted {
		ht.log.Info("Host target is stopped, session will not be connected", "Session", metadata.SessionID)
		session.markDisconnected()
		remote.OnDisconnect()
	}

	return session
}

// RegisterInstance makes a new Instance current. Every connected session gets an agent for it, and is told about the change.
// A previously registered Instance is replaced.
func (ht *HostTarget) RegisterInstance(delegate InstanceTargetDelegate) *InstanceTarget {
	instance := newInstanceTarget(delegate)

	ht.post(func() {
		if ht.closed {
			return
		}

		if ht.currentInstance != nil {
			ht.log.V(1).Info("Replacing current instance", "Instance", ht.currentInstance.ID(), "NewInstance", instance.ID())
			ht.currentInstance.removeAllAgents()
		}
		ht.currentInstance = instance

		for _, session := range ht.sessions {
			agent := instance.createAgent(session)
			session.hostAgent.SetCurrentInstanceAgent(agent)
		}
	})

	return instance
}

// UnregisterInstance detaches the Instance from every session. Does nothing if the Instance is not current.
func (ht *HostTarget) UnregisterInstance(instance *InstanceTarget) {
	ht.post(func() {
		if instance == nil || ht.currentInstance != instance {
			return
		}

		ht.currentInstance = nil
		instance.removeAllAgents()
		for _, session := range ht.sessions {
			session.hostAgent.SetCurrentInstanceAgent(nil)
		}
	})
}

// SessionCount returns the number of connected sessions.
func (ht *HostTarget) SessionCount(ctx context.Context) (int, error) {
	count := 0
	err := ht.executor.Submit(ctx, func() {
		count = len(ht.sessions)
	})
	return count, err
}

// Close disconnects all sessions and drops the current Instance. Waits until that is done, or ctx is done.
// Sessions connected after Close are disconnected immediately.
func (ht *HostTarget) Close(ctx context.Context) error {
	err := ht.executor.Submit(ctx, func() {
		if ht.closed {
			return
		}
		ht.closed = true

		for _, session := range ht.sessions {
			session.disconnect()
		}
		if ht.currentInstance != nil {
			ht.currentInstance.removeAllAgents()
			ht.currentInstance = nil
		}
	})

	if ht.queueStats != nil {
		if unregisterErr := ht.queueStats.Unregister(); unregisterErr != nil {
			ht.log.V(1).Info("Could not stop reporting host executor queue length", "Error", unregisterErr.Error())
		}
	}

	if err != nil {
		return fmt.Errorf("could not close host target: %w", err)
	}
	return nil
}

func (ht *HostTarget) post(task func()) {
	if !ht.executor.Post(task) {
		ht.log.V(1).Info("Host target is stopped, ignoring request")
	}
}

// Called on the executor goroutine when a session goes away.
func (ht *HostTarget) removeSession(session *HostTargetSession) {
	if _, found := ht.sessions[session.ID()]; !found {
		return
	}

	delete(ht.sessions, session.ID())
	activeSessionsCounter.Add(context.Background(), -1)
	if ht.currentInstance != nil {
		ht.currentInstance.removeAgent(session.ID())
	}
}
