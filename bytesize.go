package base64load

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sasskit/base64load/internal/bytesize"
)

// ByteSize is a byte count with human-readable JSON/YAML serialization. It
// backs the max_fetch_size configuration setting and accepts both IEC
// (binary) and SI (decimal) units.
//
// Example:
//
//	// YAML: max_fetch_size: 16MiB
//	// JSON: {"max_fetch_size": "16MiB"}
type ByteSize int64

// ParseByteSize parses a size string such as "1024", "16MiB" or "2.5MB".
func ParseByteSize(s string) (ByteSize, error) {
	val, err := bytesize.Parse(s)
	if err != nil {
		return 0, err
	}

	return ByteSize(val), nil
}

// Int64 returns the underlying byte count.
func (b ByteSize) Int64() int64 {
	return int64(b)
}

// String returns a human-readable representation using IEC units.
func (b ByteSize) String() string {
	bytes := int64(b)
	if bytes < 0 {
		return fmt.Sprintf("%d B", bytes)
	}

	const (
		kiB int64 = 1 << 10
		miB int64 = 1 << 20
		giB int64 = 1 << 30
		tiB int64 = 1 << 40
	)

	switch {
	case bytes >= tiB:
		return fmt.Sprintf("%.2f TiB", float64(bytes)/float64(tiB))
	case bytes >= giB:
		return fmt.Sprintf("%.2f GiB", float64(bytes)/float64(giB))
	case bytes >= miB:
		return fmt.Sprintf("%.2f MiB", float64(bytes)/float64(miB))
	case bytes >= kiB:
		return fmt.Sprintf("%.2f KiB", float64(bytes)/float64(kiB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// MarshalJSON outputs the size as a quoted string.
func (b ByteSize) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON parses the size from a string or a number of bytes.
func (b *ByteSize) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := bytesize.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid byte size string %q: %w", s, err)
		}
		*b = ByteSize(parsed)

		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("byte size must be string or number, got: %s", string(data))
	}
	*b = ByteSize(n)

	return nil
}

// MarshalYAML outputs the size as a string.
func (b ByteSize) MarshalYAML() (any, error) {
	return b.String(), nil
}

// UnmarshalYAML parses the size from a string or a number of bytes.
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar value for byte size, got %v", node.Kind)
	}

	parsed, err := bytesize.Parse(node.Value)
	if err == nil {
		*b = ByteSize(parsed)

		return nil
	}

	var n int64
	if err := node.Decode(&n); err == nil {
		*b = ByteSize(n)

		return nil
	}

	return fmt.Errorf("invalid byte size value: %s", node.Value)
}
