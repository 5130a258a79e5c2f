/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package inspector

import (
	"time"
)

const (
	// Sent whenever a session gets a new current instance.
	EventInstanceAttached = "Target.instanceAttached"

	// Sent whenever a session is left without a current instance.
	EventInstanceDetached = "Target.instanceDetached"

	EventLogEntryAdded                  = "Log.entryAdded"
	EventHostApplicationMetadataUpdated = "HostApplication.metadataUpdated"

	eventRuntimeExecutionContextsCleared = "Runtime.executionContextsCleared"
)

type instanceAttachedParams struct {
	InstanceID         string `json:"instanceId"`
	PreviousInstanceID string `json:"previousInstanceId,omitempty"`
}

type instanceDetachedParams struct {
	InstanceID string `json:"instanceId"`
}

type logEntry struct {
	Source    string  `json:"source"`
	Level     string  `json:"level"`
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"` // Milliseconds since Unix epoch
}

type logEntryAddedParams struct {
	Entry logEntry `json:"entry"`
}

// sendInfoLogEntry sends a Log.entryAdded notification with the given text.
// The caller must make sure the frontend enabled the Log domain first.
// Frontends show these entries in the console, next to console messages from the instance.
// Runtime.consoleAPICalled cannot be used here because it needs an execution context,
// and there is none at the Host level.
func (a *HostAgent) sendInfoLogEntry(text string) {
	a.sendEvent(EventLogEntryAdded, logEntryAddedParams{
		Entry: logEntry{
			Source:    "other",
			Level:     "info",
			Text:      text,
			Timestamp: float64(time.Now().UnixNano()) / float64(time.Millisecond),
		},
	})
}
