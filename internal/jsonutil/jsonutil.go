// Package jsonutil provides shared utilities for JSON parsing patterns:
// error handling, type conversion, and line-oriented helpers.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// GetFloat safely extracts a numeric value from a map[string]interface{}.
// encoding/json decodes all JSON numbers as float64; string-typed values
// are not coerced. The second return reports whether the key held a number.
func GetFloat(m map[string]interface{}, key string) (float64, bool) {
	if val, ok := m[key].(float64); ok {
		return val, true
	}
	return 0, false
}

// UnmarshalLine unmarshals a single JSON line (string) into v.
// Returns an error if the line is empty or cannot be parsed.
func UnmarshalLine(line string, v interface{}) error {
	if line == "" {
		return fmt.Errorf("empty JSON line")
	}
	return json.Unmarshal([]byte(line), v)
}

// UnmarshalLineSafe unmarshals a single JSON line (string) into v.
// Returns false if the line is empty or cannot be parsed, true on success.
// Useful when parsing multiple lines where some may be invalid.
func UnmarshalLineSafe(line string, v interface{}) bool {
	return UnmarshalLine(line, v) == nil
}
