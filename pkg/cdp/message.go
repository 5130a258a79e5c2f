/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package cdp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PreparsedRequest is a CDP request whose envelope has been parsed, but whose params have not.
type PreparsedRequest struct {
	// ID is the identifier that must be echoed by the response. Zero if the request expects no response.
	ID RequestID `json:"id"`

	// Method is the fully qualified method name, e.g. "Runtime.evaluate".
	Method string `json:"method"`

	// Params is the raw JSON object with method parameters, nil if the request had none.
	Params json.RawMessage `json:"params,omitempty"`
}

// Domain returns the part of the method name before the first dot ("Runtime" for "Runtime.evaluate").
func (r PreparsedRequest) Domain() string {
	domain, _, _ := strings.Cut(r.Method, ".")
	return domain
}

// HasID returns true if the request expects a response.
func (r PreparsedRequest) HasID() bool {
	return !r.ID.IsZero()
}

// DecodeParams unmarshals request params into v.
// A request without params leaves v untouched. Decoding failures are reported as InvalidParams errors.
func (r PreparsedRequest) DecodeParams(v any) error {
	if len(r.Params) == 0 || bytes.Equal(bytes.TrimSpace(r.Params), jsonNull) {
		return nil
	}

	if unmarshalErr := json.Unmarshal(r.Params, v); unmarshalErr != nil {
		return NewError(InvalidParams, "invalid params for %s: %v", r.Method, unmarshalErr)
	}
	return nil
}

// ParseRequest parses the envelope of a CDP request.
// On failure the returned error is a *Error with ParseError or InvalidRequest code,
// and the returned request carries the id whenever it could be read, so that the caller can reply.
func ParseRequest(message []byte) (PreparsedRequest, error) {
	if !json.Valid(message) {
		return PreparsedRequest{}, NewError(ParseError, "message is not valid JSON")
	}

	var envelope struct {
		ID     json.RawMessage `json:"id"`
		Method *string         `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if unmarshalErr := json.Unmarshal(message, &envelope); unmarshalErr != nil {
		return PreparsedRequest{}, NewError(InvalidRequest, "message is not a JSON object: %v", unmarshalErr)
	}

	var req PreparsedRequest
	if len(envelope.ID) > 0 {
		if idErr := json.Unmarshal(envelope.ID, &req.ID); idErr != nil {
			return PreparsedRequest{}, NewError(InvalidRequest, "%v", idErr)
		}
	}

	if envelope.Method == nil || strings.TrimSpace(*envelope.Method) == "" {
		return req, NewError(InvalidRequest, "message has no method")
	}
	req.Method = *envelope.Method

	if domain, name, found := strings.Cut(req.Method, "."); !found || domain == "" || name == "" {
		return req, NewError(InvalidRequest, "method '%s' is not of the form Domain.method", req.Method)
	}

	params := bytes.TrimSpace(envelope.Params)
	if len(params) > 0 && !bytes.Equal(params, jsonNull) {
		if params[0] != '{' {
			return req, NewError(InvalidRequest, "params of '%s' must be a JSON object", req.Method)
		}
		req.Params = append(json.RawMessage(nil), params...)
	}

	return req, nil
}

// Message is a decoded outbound CDP message: either a response (ID set) or an event (Method set).
type Message struct {
	ID     RequestID       `json:"id"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// IsEvent returns true if the message is a notification rather than a response.
func (m Message) IsEvent() bool {
	return m.ID.IsZero() && m.Method != ""
}

// DecodeMessage decodes a response or an event produced by the JSON* helpers or by an instance agent.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if unmarshalErr := json.Unmarshal(data, &msg); unmarshalErr != nil {
		return Message{}, fmt.Errorf("failed to decode CDP message: %w", unmarshalErr)
	}
	return msg, nil
}
