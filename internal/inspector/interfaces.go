/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package inspector

import (
	"github.com/microsoft/hostinspector/pkg/cdp"
)

// FrontendChannel sends a serialized CDP response or event to the frontend of one session.
type FrontendChannel func(message []byte)

// InstanceAgent handles instance-scoped CDP requests (Runtime, Debugger, etc.) for one session.
// For every forwarded request that has an id, the agent must eventually send exactly one response
// through the FrontendChannel it was created with.
type InstanceAgent interface {
	HandleRequest(req cdp.PreparsedRequest)
}

// HostTargetController is the part of the Host that a HostAgent may query and act upon.
// The controller must outlive every HostAgent that uses it.
type HostTargetController interface {
	Metadata() HostTargetMetadata
	Reload(req ReloadRequest) error
	SetPausedInDebuggerMessage(req PausedInDebuggerMessageRequest) error

	// IncrementPauseOverlayCounter records that one more session is showing the "paused in debugger" overlay.
	IncrementPauseOverlayCounter()

	// DecrementPauseOverlayCounter records that a session stopped showing the overlay.
	// When no session shows it anymore, the overlay is cleared.
	DecrementPauseOverlayCounter()
}

// HostTargetDelegate is implemented by the integrator embedding the inspector into an application Host.
// Metadata may be called from any goroutine; the other methods are called on the host executor.
type HostTargetDelegate interface {
	Metadata() HostTargetMetadata
	OnReload(req ReloadRequest) error
	OnSetPausedInDebuggerMessage(req PausedInDebuggerMessageRequest) error
}

// InstanceTargetDelegate creates the per-session agents of one Instance. Called on the host executor.
// Returning nil, or a nil pointer, leaves the session without an instance agent.
type InstanceTargetDelegate interface {
	CreateAgent(channel FrontendChannel, state *SessionState) InstanceAgent
}

// RemoteConnection is the transport side of a session.
// OnMessage receives every outbound message, OnDisconnect is called once when the session ends.
type RemoteConnection interface {
	OnMessage(message []byte)
	OnDisconnect()
}

// HostTargetMetadata describes the inspectable Host.
type HostTargetMetadata struct {
	AppDisplayName  string `json:"appDisplayName,omitempty"`
	AppIdentifier   string `json:"appIdentifier,omitempty"`
	DeviceName      string `json:"deviceName,omitempty"`
	IntegrationName string `json:"integrationName,omitempty"`
	Platform        string `json:"platform,omitempty"`
	Version         string `json:"version,omitempty"`
}

// ReloadRequest carries the parameters of Page.reload.
type ReloadRequest struct {
	IgnoreCache            *bool   `json:"ignoreCache,omitempty"`
	ScriptToEvaluateOnLoad *string `json:"scriptToEvaluateOnLoad,omitempty"`
}

// PausedInDebuggerMessageRequest carries the parameters of Overlay.setPausedInDebuggerMessage.
// A nil Message hides the overlay.
type PausedInDebuggerMessageRequest struct {
	Message *string `json:"message,omitempty"`
}
