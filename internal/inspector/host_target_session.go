/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package inspector

import (
	"sync/atomic"

	"github.com/microsoft/hostinspector/pkg/cdp"
)

// HostTargetSession is one frontend connection to a HostTarget.
type HostTargetSession struct {
	host     *HostTarget
	remote   RemoteConnection
	metadata SessionMetadata

	// Only accessed on the host executor goroutine.
	state     *SessionState
	hostAgent *HostAgent

	disconnected atomic.Bool
}

func newHostTargetSession(host *HostTarget, remote RemoteConnection, metadata SessionMetadata) *HostTargetSession {
	return &HostTargetSession{
		host:     host,
		remote:   remote,
		metadata: metadata,
		state:    &SessionState{},
	}
}

func (s *HostTargetSession) ID() string {
	return s.metadata.SessionID
}

func (s *HostTargetSession) Metadata() SessionMetadata {
	return s.metadata
}

// SendMessage delivers a CDP message from the frontend. The message is parsed and handled on the host executor.
// Messages that cannot be parsed are answered with an error, provided their id could be read.
func (s *HostTargetSession) SendMessage(message []byte) {
	if s.disconnected.Load() {
		return
	}

	message = append([]byte(nil), message...)
	s.host.post(func() {
		if s.disconnected.Load() || s.hostAgent == nil {
			return
		}

		req, parseErr := cdp.ParseRequest(message)
		if parseErr != nil {
			s.host.log.V(1).Info("Received invalid CDP message", "Session", s.ID(), "Error", parseErr.Error())
			if req.HasID() {
				s.sendToFrontend(cdp.JSONErrorFrom(req.ID, parseErr))
			}
			return
		}

		s.hostAgent.HandleRequest(req)
	})
}

// Disconnect ends the session. The RemoteConnection is notified once. Safe to call more than once.
func (s *HostTargetSession) Disconnect() {
	if s.disconnected.Load() {
		return
	}
	s.host.post(s.disconnect)
}

// Runs on the executor goroutine.
func (s *HostTargetSession) disconnect() {
	if !s.markDisconnected() {
		return
	}

	if s.hostAgent != nil {
		s.hostAgent.Close()
	}
	s.host.removeSession(s)

	s.host.log.V(1).Info("Session disconnected", "Session", s.ID())
	s.remote.OnDisconnect()
}

// Returns true if the session was connected before the call.
func (s *HostTargetSession) markDisconnected() bool {
	return s.disconnected.CompareAndSwap(false, true)
}

// The FrontendChannel of the session. Messages sent after the session ended are dropped.
func (s *HostTargetSession) sendToFrontend(message []byte) {
	if s.disconnected.Load() {
		return
	}
	s.remote.OnMessage(message)
}
