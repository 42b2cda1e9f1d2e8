// Package jsonutil provides tolerant JSON helpers for the storage boundary.
package jsonutil

import (
	"encoding/json"
)

// MarshalString serializes v to a JSON string.
// Returns "" on nil input or marshal failure; blob columns treat that as absent.
func MarshalString(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
