/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package inspector

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/microsoft/hostinspector/pkg/cdp"
)

// HostAgent handles the CDP requests of one session attached to a Host.
//
// Host-scoped methods are answered by the agent itself. Requests for any other domain are forwarded
// to the current InstanceAgent, which becomes responsible for answering them. If there is no
// current InstanceAgent, such requests are answered with a NoActiveInstance error.
//
// All methods, including the constructor, must be called on the same goroutine (the host executor).
// This is not checked at runtime.
type HostAgent struct {
	frontendChannel  FrontendChannel
	targetController HostTargetController
	sessionMetadata  SessionMetadata
	sessionState     *SessionState
	log              logr.Logger

	// The current InstanceAgent, nil when no instance is running.
	// The agent is shared with the InstanceTarget that created it; the HostAgent only drops its own reference.
	instanceAgent      InstanceAgent
	instanceID         string
	instanceGeneration int

	isPausedInDebuggerOverlayVisible bool

	// Work that must happen after the response to the request being handled has been sent.
	afterResponse []func()
}

type HostAgentOption func(*HostAgent)

func WithLogger(log logr.Logger) HostAgentOption {
	return func(a *HostAgent) {
		a.log = log
	}
}

// NewHostAgent creates an agent for a session. Nothing is sent to the frontend until a request arrives
// or the instance changes.
// The targetController must outlive the agent. The sessionState is shared with other session collaborators.
func NewHostAgent(
	frontendChannel FrontendChannel,
	targetController HostTargetController,
	sessionMetadata SessionMetadata,
	sessionState *SessionState,
	opts ...HostAgentOption,
) *HostAgent {
	a := &HostAgent{
		frontendChannel:  frontendChannel,
		targetController: targetController,
		sessionMetadata:  sessionMetadata,
		sessionState:     sessionState,
		log:              logr.Discard(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// HandleRequest handles a CDP request. The response is sent over the FrontendChannel,
// either before HandleRequest returns (Host-scoped methods) or later, by the InstanceAgent.
// Requests without an id get no response.
func (a *HostAgent) HandleRequest(req cdp.PreparsedRequest) {
	a.log.V(1).Info("Handling CDP request", "Method", req.Method, "ID", req.ID.String())

	if handler, isHostMethod := hostMethodHandlers[req.Method]; isHostMethod {
		a.handleHostRequest(req, handler)
		return
	}

	if isHostDomain(req.Domain()) {
		recordRouting(requestsMethodNotFoundCounter, req)
		a.sendError(req, cdp.MethodNotFound, fmt.Sprintf("'%s' wasn't found", req.Method))
		return
	}

	a.forwardToInstance(req)
}

// SetCurrentInstanceAgent replaces the current InstanceAgent (nil means no instance is running)
// and notifies the frontend. Every call produces exactly one topology event, even if the agent did not change.
// Requests already forwarded to the previous agent are not affected.
func (a *HostAgent) SetCurrentInstanceAgent(agent InstanceAgent) {
	if isNilAgent(agent) {
		agent = nil
	}

	previousInstanceID := a.instanceID
	hadPreviousInstance := a.instanceAgent != nil

	a.instanceAgent = agent
	if agent != nil {
		a.instanceGeneration++
		a.instanceID = fmt.Sprintf("instance-%d", a.instanceGeneration)
	} else {
		a.instanceID = ""
	}

	instanceSwapCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("attached", agent != nil)))

	if hadPreviousInstance && a.sessionState.IsRuntimeDomainEnabled {
		// There is only one instance per Host, so every execution context the frontend knows about is gone.
		a.sendEvent(eventRuntimeExecutionContextsCleared, nil)
	}

	if agent != nil {
		a.sendEvent(EventInstanceAttached, instanceAttachedParams{
			InstanceID:         a.instanceID,
			PreviousInstanceID: previousInstanceID,
		})
	} else {
		a.sendEvent(EventInstanceDetached, instanceDetachedParams{
			InstanceID: previousInstanceID,
		})
	}

	if a.sessionState.IsLogDomainEnabled {
		a.sendInfoLogEntry(describeInstanceChange(previousInstanceID, a.instanceID))
	}

	a.log.V(1).Info("Current instance changed", "PreviousInstance", previousInstanceID, "Instance", a.instanceID)
}

// Close releases the agent's resources when the session ends. Nothing is sent to the frontend.
func (a *HostAgent) Close() {
	if a.isPausedInDebuggerOverlayVisible {
		a.isPausedInDebuggerOverlayVisible = false
		a.targetController.DecrementPauseOverlayCounter()
	}

	a.instanceAgent = nil
	a.instanceID = ""
	a.afterResponse = nil
}

func (a *HostAgent) handleHostRequest(req cdp.PreparsedRequest, handler hostMethodHandler) {
	recordRouting(requestsHandledLocallyCounter, req)

	result, handlerErr := handler(a, req)
	if handlerErr != nil {
		a.afterResponse = nil
		a.log.V(1).Info("Host-scoped request failed", "Method", req.Method, "Error", handlerErr.Error())
		if req.HasID() {
			a.frontendChannel(cdp.JSONErrorFrom(req.ID, handlerErr))
		}
		return
	}

	if req.HasID() {
		a.frontendChannel(cdp.JSONResult(req.ID, result))
	}

	pending := a.afterResponse
	a.afterResponse = nil
	for _, fn := range pending {
		fn()
	}
}

func (a *HostAgent) forwardToInstance(req cdp.PreparsedRequest) {
	if a.instanceAgent == nil {
		recordRouting(requestsNoInstanceCounter, req)
		if !req.HasID() {
			a.log.V(1).Info("Dropping instance-scoped notification, there is no active instance", "Method", req.Method)
			return
		}
		a.sendError(req, cdp.NoActiveInstance, fmt.Sprintf("Cannot handle '%s': no active instance", req.Method))
		return
	}

	recordInstanceDomainState(a.sessionState, req.Method)
	recordRouting(requestsForwardedCounter, req)
	a.instanceAgent.HandleRequest(req)
}

// Schedules fn to run after the response to the current request has been sent.
func (a *HostAgent) runAfterResponse(fn func()) {
	a.afterResponse = append(a.afterResponse, fn)
}

func (a *HostAgent) sendError(req cdp.PreparsedRequest, code cdp.ErrorCode, message string) {
	if !req.HasID() {
		return
	}
	a.frontendChannel(cdp.JSONError(req.ID, code, message))
}

func (a *HostAgent) sendEvent(method string, params any) {
	a.frontendChannel(cdp.JSONNotification(method, params))
}

// Keeps the session state in sync with instance domains that other session collaborators care about.
func recordInstanceDomainState(state *SessionState, method string) {
	switch method {
	case "Runtime.enable":
		state.IsRuntimeDomainEnabled = true
	case "Runtime.disable":
		state.IsRuntimeDomainEnabled = false
	case "Debugger.enable":
		state.IsDebuggerDomainEnabled = true
	case "Debugger.disable":
		state.IsDebuggerDomainEnabled = false
	}
}

func describeInstanceChange(previousInstanceID, instanceID string) string {
	switch {
	case instanceID == "" && previousInstanceID == "":
		return "No active instance."
	case instanceID == "":
		return fmt.Sprintf("Instance %s was destroyed, waiting for a new instance.", previousInstanceID)
	case previousInstanceID == "":
		return fmt.Sprintf("Attached to instance %s.", instanceID)
	default:
		return fmt.Sprintf("Instance %s was replaced by %s.", previousInstanceID, instanceID)
	}
}

// isNilAgent reports whether the agent is nil, including a nil pointer wrapped in the interface.
func isNilAgent(agent InstanceAgent) bool {
	if agent == nil {
		return true
	}
	v := reflect.ValueOf(agent)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
