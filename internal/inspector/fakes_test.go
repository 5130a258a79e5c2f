/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package inspector

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/hostinspector/pkg/cdp"
)

// Records everything sent to the frontend. Safe for concurrent use.
type testFrontend struct {
	lock         sync.Mutex
	messages     [][]byte
	disconnected int
}

func (f *testFrontend) channel() FrontendChannel {
	return f.OnMessage
}

func (f *testFrontend) OnMessage(message []byte) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.messages = append(f.messages, slices.Clone(message))
}

func (f *testFrontend) OnDisconnect() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.disconnected++
}

func (f *testFrontend) disconnectCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.disconnected
}

// Returns the decoded messages received so far and forgets them.
func (f *testFrontend) take(t *testing.T) []cdp.Message {
	f.lock.Lock()
	raw := f.messages
	f.messages = nil
	f.lock.Unlock()

	decoded := make([]cdp.Message, 0, len(raw))
	for _, data := range raw {
		msg, err := cdp.DecodeMessage(data)
		require.NoError(t, err)
		decoded = append(decoded, msg)
	}
	return decoded
}

var _ RemoteConnection = (*testFrontend)(nil)

type testController struct {
	metadata          HostTargetMetadata
	reloadErr         error
	reloads           []ReloadRequest
	pausedMessages    []PausedInDebuggerMessageRequest
	pauseOverlayCount int
}

func (c *testController) Metadata() HostTargetMetadata {
	return c.metadata
}

func (c *testController) Reload(req ReloadRequest) error {
	c.reloads = append(c.reloads, req)
	return c.reloadErr
}

func (c *testController) SetPausedInDebuggerMessage(req PausedInDebuggerMessageRequest) error {
	c.pausedMessages = append(c.pausedMessages, req)
	return nil
}

func (c *testController) IncrementPauseOverlayCounter() {
	c.pauseOverlayCount++
}

func (c *testController) DecrementPauseOverlayCounter() {
	c.pauseOverlayCount--
}

var _ HostTargetController = (*testController)(nil)

// An InstanceAgent that records requests and, when it has a channel, answers them with an echo of the method name.
type testInstanceAgent struct {
	name     string
	channel  FrontendChannel
	lock     sync.Mutex
	requests []cdp.PreparsedRequest
}

func (a *testInstanceAgent) HandleRequest(req cdp.PreparsedRequest) {
	a.lock.Lock()
	a.requests = append(a.requests, req)
	a.lock.Unlock()

	if a.channel != nil && req.HasID() {
		a.channel(cdp.JSONResult(req.ID, map[string]string{"agent": a.name, "method": req.Method}))
	}
}

func (a *testInstanceAgent) received() []cdp.PreparsedRequest {
	a.lock.Lock()
	defer a.lock.Unlock()
	return slices.Clone(a.requests)
}

// Creates echoing instance agents and remembers them.
type testInstanceDelegate struct {
	name   string
	lock   sync.Mutex
	agents []*testInstanceAgent
	states []*SessionState
}

func (d *testInstanceDelegate) CreateAgent(channel FrontendChannel, state *SessionState) InstanceAgent {
	agent := &testInstanceAgent{name: d.name, channel: channel}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.agents = append(d.agents, agent)
	d.states = append(d.states, state)
	return agent
}

func (d *testInstanceDelegate) createdAgents() []*testInstanceAgent {
	d.lock.Lock()
	defer d.lock.Unlock()
	return slices.Clone(d.agents)
}

type testHostDelegate struct {
	lock           sync.Mutex
	metadata       HostTargetMetadata
	reloadErr      error
	reloads        int
	pausedMessages []PausedInDebuggerMessageRequest
}

func (d *testHostDelegate) Metadata() HostTargetMetadata {
	return d.metadata
}

func (d *testHostDelegate) OnReload(_ ReloadRequest) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.reloads++
	return d.reloadErr
}

func (d *testHostDelegate) OnSetPausedInDebuggerMessage(req PausedInDebuggerMessageRequest) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.pausedMessages = append(d.pausedMessages, req)
	return nil
}

func (d *testHostDelegate) pausedMessageHistory() []PausedInDebuggerMessageRequest {
	d.lock.Lock()
	defer d.lock.Unlock()
	return slices.Clone(d.pausedMessages)
}

func mustParse(t *testing.T, message string) cdp.PreparsedRequest {
	req, err := cdp.ParseRequest([]byte(message))
	require.NoError(t, err)
	return req
}

func requireSuccess(t *testing.T, msg cdp.Message, id int64) {
	require.False(t, msg.IsEvent(), "expected a response, got event %s", msg.Method)
	require.Equal(t, cdp.NumericID(id), msg.ID)
	require.Nil(t, msg.Error, "unexpected error response")
}

func requireError(t *testing.T, msg cdp.Message, id int64, code cdp.ErrorCode) {
	require.False(t, msg.IsEvent(), "expected a response, got event %s", msg.Method)
	require.Equal(t, cdp.NumericID(id), msg.ID)
	require.NotNil(t, msg.Error, "expected an error response")
	require.Equal(t, code, msg.Error.Code, msg.Error.Message)
}

func requireEvent(t *testing.T, msg cdp.Message, method string) {
	require.True(t, msg.IsEvent(), "expected event %s, got a response", method)
	require.Equal(t, method, msg.Method)
}
