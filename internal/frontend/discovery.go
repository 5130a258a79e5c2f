/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package frontend

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/microsoft/hostinspector/internal/version"
)

const (
	debugEndpointPath = "/inspector/debug"
	protocolVersion   = "1.3"
)

type versionDescriptor struct {
	Browser         string `json:"Browser"`
	ProtocolVersion string `json:"Protocol-Version"`
}

type targetDescriptor struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Description          string `json:"description"`
	Type                 string `json:"type"`
	AppID                string `json:"appId,omitempty"`
	DeviceName           string `json:"deviceName,omitempty"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	DevtoolsFrontendURL  string `json:"devtoolsFrontendUrl"`
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, versionDescriptor{
		Browser:         fmt.Sprintf("%s/%s", s.config.ProductName, version.Version().Version),
		ProtocolVersion: protocolVersion,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	metadata := s.host.Metadata()

	id := metadata.AppIdentifier
	if id == "" {
		id = "host"
	}

	title := metadata.AppDisplayName
	if title == "" {
		title = s.config.ProductName
	}

	description := metadata.Platform
	if metadata.DeviceName != "" {
		description = fmt.Sprintf("%s (%s)", metadata.DeviceName, metadata.Platform)
	}

	wsAddress := r.Host + debugEndpointPath
	s.writeJSON(w, []targetDescriptor{{
		ID:                   id,
		Title:                title,
		Description:          description,
		Type:                 "node",
		AppID:                metadata.AppIdentifier,
		DeviceName:           metadata.DeviceName,
		WebSocketDebuggerURL: "ws://" + wsAddress,
		DevtoolsFrontendURL:  "devtools://devtools/bundled/js_app.html?experiments=true&v8only=true&ws=" + wsAddress,
	}})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	body, marshalErr := json.Marshal(v)
	if marshalErr != nil {
		s.log.Error(marshalErr, "Could not serialize discovery response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
