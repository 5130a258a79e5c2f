/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package samplehost

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/microsoft/hostinspector/internal/inspector"
	"github.com/microsoft/hostinspector/pkg/cdp"
)

const mainExecutionContextID = 1

type instanceDelegate struct {
	name string
	log  logr.Logger
}

func (d *instanceDelegate) CreateAgent(channel inspector.FrontendChannel, _ *inspector.SessionState) inspector.InstanceAgent {
	return &instanceAgent{
		name:    d.name,
		channel: channel,
		log:     d.log,
	}
}

func instanceName(metadata inspector.HostTargetMetadata, generation int) string {
	name := metadata.AppDisplayName
	if name == "" {
		name = "main"
	}
	return fmt.Sprintf("%s #%d", name, generation)
}

// instanceAgent implements a small subset of the Runtime and Debugger domains.
type instanceAgent struct {
	name    string
	channel inspector.FrontendChannel
	log     logr.Logger

	debuggerID string
}

type executionContextDescription struct {
	ID     int    `json:"id"`
	Origin string `json:"origin"`
	Name   string `json:"name"`
}

type executionContextCreatedParams struct {
	Context executionContextDescription `json:"context"`
}

type remoteObject struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type evaluateResult struct {
	Result remoteObject `json:"result"`
}

type debuggerEnableResult struct {
	DebuggerID string `json:"debuggerId"`
}

func (a *instanceAgent) HandleRequest(req cdp.PreparsedRequest) {
	switch req.Method {
	case "Runtime.enable":
		a.respond(req, nil, nil)
		a.channel(cdp.JSONNotification("Runtime.executionContextCreated", executionContextCreatedParams{
			Context: executionContextDescription{ID: mainExecutionContextID, Name: a.name},
		}))

	case "Runtime.disable", "Debugger.disable":
		a.respond(req, nil, nil)

	case "Runtime.evaluate":
		var params struct {
			Expression *string `json:"expression"`
		}
		if decodeErr := req.DecodeParams(&params); decodeErr != nil {
			a.respond(req, nil, decodeErr)
			return
		}
		if params.Expression == nil {
			a.respond(req, nil, cdp.NewError(cdp.InvalidParams, "'expression' parameter is required"))
			return
		}
		a.respond(req, evaluateResult{Result: remoteObject{Type: "string", Value: *params.Expression}}, nil)

	case "Debugger.enable":
		if a.debuggerID == "" {
			a.debuggerID = uuid.NewString()
		}
		a.respond(req, debuggerEnableResult{DebuggerID: a.debuggerID}, nil)

	default:
		a.respond(req, nil, cdp.NewError(cdp.MethodNotFound, "'%s' wasn't found", req.Method))
	}
}

func (a *instanceAgent) respond(req cdp.PreparsedRequest, result any, err error) {
	if !req.HasID() {
		return
	}

	if err != nil {
		a.log.V(1).Info("Instance request failed", "Method", req.Method, "Error", err.Error())
		a.channel(cdp.JSONErrorFrom(req.ID, err))
		return
	}
	a.channel(cdp.JSONResult(req.ID, result))
}
