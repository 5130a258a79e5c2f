/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package cdp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	t.Parallel()

	req, parseErr := ParseRequest([]byte(`{"id": 7, "method": "Runtime.evaluate", "params": {"expression": "1+1"}}`))
	require.NoError(t, parseErr)

	assert.Equal(t, NumericID(7), req.ID)
	assert.True(t, req.HasID())
	assert.Equal(t, "Runtime.evaluate", req.Method)
	assert.Equal(t, "Runtime", req.Domain())

	var params struct {
		Expression string `json:"expression"`
	}
	require.NoError(t, req.DecodeParams(&params))
	assert.Equal(t, "1+1", params.Expression)
}

func TestParseRequest_StringID(t *testing.T) {
	t.Parallel()

	req, parseErr := ParseRequest([]byte(`{"id": "abc", "method": "Log.enable"}`))
	require.NoError(t, parseErr)
	assert.Equal(t, StringID("abc"), req.ID)
	assert.Equal(t, `"abc"`, req.ID.String())
	assert.Nil(t, req.Params)
}

func TestParseRequest_NoID(t *testing.T) {
	t.Parallel()

	req, parseErr := ParseRequest([]byte(`{"method": "Log.enable", "params": null}`))
	require.NoError(t, parseErr)
	assert.False(t, req.HasID())
	assert.Nil(t, req.Params)
}

func TestParseRequest_Errors(t *testing.T) {
	t.Parallel()

	type testCase struct {
		description  string
		message      string
		expectedCode ErrorCode
		expectedID   RequestID
	}

	testCases := []testCase{
		{"not json", `{"id": 1, "method": `, ParseError, RequestID{}},
		{"not an object", `[1, 2, 3]`, InvalidRequest, RequestID{}},
		{"object id", `{"id": {}, "method": "Log.enable"}`, InvalidRequest, RequestID{}},
		{"missing method", `{"id": 2}`, InvalidRequest, NumericID(2)},
		{"blank method", `{"id": 3, "method": "  "}`, InvalidRequest, NumericID(3)},
		{"no domain", `{"id": 4, "method": "enable"}`, InvalidRequest, NumericID(4)},
		{"empty method name", `{"id": 5, "method": "Log."}`, InvalidRequest, NumericID(5)},
		{"array params", `{"id": 6, "method": "Log.enable", "params": []}`, InvalidRequest, NumericID(6)},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			req, parseErr := ParseRequest([]byte(tc.message))
			require.Error(t, parseErr)

			cdpErr, isCdpErr := AsError(parseErr)
			require.True(t, isCdpErr)
			assert.Equal(t, tc.expectedCode, cdpErr.Code)
			assert.Equal(t, tc.expectedID, req.ID)
		})
	}
}

func TestDecodeParams_InvalidParams(t *testing.T) {
	t.Parallel()

	req := PreparsedRequest{
		ID:     NumericID(1),
		Method: "Target.setDiscoverTargets",
		Params: json.RawMessage(`{"discover": "yes"}`),
	}

	var params struct {
		Discover bool `json:"discover"`
	}
	decodeErr := req.DecodeParams(&params)
	require.Error(t, decodeErr)

	cdpErr, isCdpErr := AsError(decodeErr)
	require.True(t, isCdpErr)
	assert.Equal(t, InvalidParams, cdpErr.Code)
}

func TestRequestID_RoundTripPreservesText(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`1`, `-42`, `1.5`, `"x-1"`} {
		var id RequestID
		require.NoError(t, json.Unmarshal([]byte(raw), &id))
		assert.Equal(t, raw, id.String())

		out, marshalErr := json.Marshal(id)
		require.NoError(t, marshalErr)
		assert.Equal(t, raw, string(out))
	}

	var id RequestID
	require.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestJSONHelpers(t *testing.T) {
	t.Parallel()

	assert.JSONEq(t, `{"id": 1, "result": {}}`, string(JSONResult(NumericID(1), nil)))
	assert.JSONEq(t, `{"id": "a", "result": {"value": 3}}`, string(JSONResult(StringID("a"), map[string]int{"value": 3})))
	assert.JSONEq(t,
		`{"id": 2, "error": {"code": -32601, "message": "nope"}}`,
		string(JSONError(NumericID(2), MethodNotFound, "nope")),
	)
	assert.JSONEq(t, `{"method": "Runtime.executionContextsCleared"}`, string(JSONNotification("Runtime.executionContextsCleared", nil)))
	assert.JSONEq(t,
		`{"method": "Log.entryAdded", "params": {"text": "hi"}}`,
		string(JSONNotification("Log.entryAdded", map[string]string{"text": "hi"})),
	)

	// Values that cannot be serialized turn into an error response with the same id.
	msg, decodeErr := DecodeMessage(JSONResult(NumericID(3), make(chan int)))
	require.NoError(t, decodeErr)
	assert.Equal(t, NumericID(3), msg.ID)
	require.NotNil(t, msg.Error)
	assert.Equal(t, InternalError, msg.Error.Code)
}

func TestJSONErrorFrom(t *testing.T) {
	t.Parallel()

	msg, decodeErr := DecodeMessage(JSONErrorFrom(NumericID(4), NewError(InvalidParams, "bad %s", "input")))
	require.NoError(t, decodeErr)
	require.NotNil(t, msg.Error)
	assert.Equal(t, InvalidParams, msg.Error.Code)
	assert.Equal(t, "bad input", msg.Error.Message)
	assert.False(t, msg.IsEvent())

	msg, decodeErr = DecodeMessage(JSONErrorFrom(NumericID(5), assert.AnError))
	require.NoError(t, decodeErr)
	require.NotNil(t, msg.Error)
	assert.Equal(t, InternalError, msg.Error.Code)
}

func TestDecodeMessage_Event(t *testing.T) {
	t.Parallel()

	msg, decodeErr := DecodeMessage([]byte(`{"method": "Target.instanceAttached", "params": {"instanceId": "instance-1"}}`))
	require.NoError(t, decodeErr)
	assert.True(t, msg.IsEvent())
	assert.Equal(t, "Target.instanceAttached", msg.Method)
}
