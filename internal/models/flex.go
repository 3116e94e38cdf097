// Package models - loosely typed JSON values from the backend
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// FlexString is a display string decoded from a JSON string or number.
// Credit-hour columns come back as either, depending on the backend.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = FlexString(strconv.FormatBool(b))
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.New("flex string: expected string or number")
		}
		*f = FlexString(n.String())
		return nil
	}
}

// MarshalJSON implements json.Marshaler; values always travel as strings
func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexString) String() string {
	return string(f)
}
