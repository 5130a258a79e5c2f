/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package inspector

import (
	"github.com/google/uuid"
)

// InstanceTarget represents one Instance running in the Host. It creates an InstanceAgent for every session.
// The agents are shared with the sessions' HostAgents.
type InstanceTarget struct {
	id       string
	delegate InstanceTargetDelegate

	// Session ID -> agent. Only accessed on the host executor goroutine.
	agents map[string]InstanceAgent
}

func newInstanceTarget(delegate InstanceTargetDelegate) *InstanceTarget {
	return &InstanceTarget{
		id:       uuid.NewString(),
		delegate: delegate,
		agents:   make(map[string]InstanceAgent),
	}
}

func (it *InstanceTarget) ID() string {
	return it.id
}

func (it *InstanceTarget) createAgent(session *HostTargetSession) InstanceAgent {
	agent := it.delegate.CreateAgent(session.sendToFrontend, session.state)
	if isNilAgent(agent) {
		return nil
	}
	it.agents[session.ID()] = agent
	return agent
}

func (it *InstanceTarget) removeAgent(sessionID string) {
	delete(it.agents, sessionID)
}

func (it *InstanceTarget) removeAllAgents() {
	clear(it.agents)
}
