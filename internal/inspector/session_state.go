/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package inspector

// SessionState is the mutable state of one debugging session.
// It is shared by pointer between the session's HostAgent and the InstanceAgents created for the session.
// It has no internal locking: it must only be read and written on the host executor goroutine.
type SessionState struct {
	// Set by Log.enable. Info log entries are only sent while this is true.
	IsLogDomainEnabled bool

	// Set when Runtime.enable is forwarded to an instance.
	IsRuntimeDomainEnabled bool

	// Set when Debugger.enable is forwarded to an instance.
	IsDebuggerDomainEnabled bool

	IsPageDomainEnabled            bool
	IsTargetDiscoveryEnabled       bool
	IsHostApplicationDomainEnabled bool
}

// SessionMetadata describes the frontend connection. It is captured when the session is created and never changes.
type SessionMetadata struct {
	SessionID string

	// Name of the integration (transport, IDE plugin) that created the session, if known.
	IntegrationName string

	// Name of the connecting client, if known.
	ClientName string

	// Why the client connected, if known.
	ConnectReason string
}
