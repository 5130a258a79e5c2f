/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package cdp

import (
	"encoding/json"
	"fmt"
)

type responseEnvelope struct {
	ID     RequestID       `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

type notificationEnvelope struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// JSONResult serializes a successful response. A nil result is sent as an empty object.
func JSONResult(id RequestID, result any) []byte {
	if result == nil {
		result = struct{}{}
	}

	payload, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		return JSONError(id, InternalError, fmt.Sprintf("failed to serialize result: %v", marshalErr))
	}

	return marshalEnvelope(responseEnvelope{ID: id, Result: payload})
}

// JSONError serializes an error response.
func JSONError(id RequestID, code ErrorCode, message string) []byte {
	return marshalEnvelope(responseEnvelope{
		ID:    id,
		Error: &Error{Code: code, Message: message},
	})
}

// JSONErrorFrom serializes an error response for err.
// CDP errors keep their code, any other error is reported as InternalError.
func JSONErrorFrom(id RequestID, err error) []byte {
	if cdpErr, isCdpErr := AsError(err); isCdpErr {
		return JSONError(id, cdpErr.Code, cdpErr.Message)
	}
	return JSONError(id, InternalError, err.Error())
}

// JSONNotification serializes an event. A nil params value omits the "params" key.
func JSONNotification(method string, params any) []byte {
	envelope := notificationEnvelope{Method: method}

	if params != nil {
		payload, marshalErr := json.Marshal(params)
		if marshalErr != nil {
			// Events have no requester to report the failure to; send the event without params.
			return marshalEnvelope(envelope)
		}
		envelope.Params = payload
	}

	return marshalEnvelope(envelope)
}

func marshalEnvelope(envelope any) []byte {
	data, marshalErr := json.Marshal(envelope)
	if marshalErr != nil {
		// Envelopes only contain pre-serialized payloads and plain strings.
		panic(fmt.Sprintf("failed to serialize CDP envelope: %v", marshalErr))
	}
	return data
}
