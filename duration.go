package base64load

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with human-readable JSON/YAML serialization.
// Unlike time.Duration which marshals to nanoseconds, Duration marshals to
// a string format (e.g., "30s", "1m30s"). It backs the fetch_timeout
// configuration setting.
//
// Example:
//
//	// YAML: fetch_timeout: 30s
//	// JSON: {"fetch_timeout": "30s"}
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String returns the duration string (e.g., "1m30s").
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON outputs the duration as a quoted string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses the duration from a string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration string %q: %w", s, err)
		}
		*d = Duration(parsed)

		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be string or number, got: %s", string(data))
	}
	*d = Duration(n)

	return nil
}

// MarshalYAML outputs the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML parses the duration from a string or a number of nanoseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar value for duration, got %v", node.Kind)
	}

	parsed, err := time.ParseDuration(node.Value)
	if err == nil {
		*d = Duration(parsed)

		return nil
	}

	var n int64
	if err := node.Decode(&n); err == nil {
		*d = Duration(n)

		return nil
	}

	return fmt.Errorf("invalid duration value: %s", node.Value)
}
