/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package cdp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

var jsonNull = []byte("null")

// RequestID is the caller-supplied identifier of a CDP request.
// It holds the canonical JSON text of the id (a number or a string), so it can be echoed
// back exactly as received. The zero value means the message carried no id.
type RequestID struct {
	raw string
}

func NumericID(n int64) RequestID {
	return RequestID{raw: strconv.FormatInt(n, 10)}
}

func StringID(s string) RequestID {
	encoded, _ := json.Marshal(s)
	return RequestID{raw: string(encoded)}
}

// IsZero returns true if the id is absent.
func (id RequestID) IsZero() bool {
	return id.raw == ""
}

// String returns the JSON text of the id, or an empty string if the id is absent.
func (id RequestID) String() string {
	return id.raw
}

func (id RequestID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return jsonNull, nil
	}
	return []byte(id.raw), nil
}

func (id *RequestID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*id = RequestID{}
		return nil
	}

	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if unmarshalErr := json.Unmarshal(trimmed, &s); unmarshalErr != nil {
			return fmt.Errorf("invalid string request id: %w", unmarshalErr)
		}
		*id = StringID(s)
		return nil

	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if unmarshalErr := json.Unmarshal(trimmed, &n); unmarshalErr != nil {
			return fmt.Errorf("invalid numeric request id: %w", unmarshalErr)
		}
		*id = RequestID{raw: n.String()}
		return nil

	default:
		return fmt.Errorf("request id must be a number or a string, got %s", string(trimmed))
	}
}

var (
	_ json.Marshaler   = RequestID{}
	_ json.Unmarshaler = (*RequestID)(nil)
)
