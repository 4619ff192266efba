// Package bytesize parses human-readable byte size strings.
package bytesize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Multipliers maps unit suffixes to their byte multipliers.
// Keys are lowercase for case-insensitive lookup.
var Multipliers = map[string]int64{
	// IEC (binary)
	"kib": 1 << 10,
	"mib": 1 << 20,
	"gib": 1 << 30,
	"tib": 1 << 40,
	// SI (decimal)
	"kb": 1000,
	"mb": 1000 * 1000,
	"gb": 1000 * 1000 * 1000,
	"tb": 1000 * 1000 * 1000 * 1000,
	// Byte
	"b": 1,
}

// LookupMultiplier returns the byte multiplier for a unit suffix
// (case-insensitive, surrounding space ignored).
func LookupMultiplier(unit string) (int64, bool) {
	val, ok := Multipliers[strings.ToLower(strings.TrimSpace(unit))]
	return val, ok
}

// Parse converts a size string into a byte count. Plain integers are taken
// as bytes; otherwise a decimal number with an IEC or SI suffix is expected.
// Examples: "1024", "16MiB", "2.5MB".
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty size string")
	}

	// Fast path for raw byte counts.
	if val, err := strconv.ParseInt(s, 10, 64); err == nil {
		return val, nil
	}

	numStr, unitStr, err := splitNumberUnit(s)
	if err != nil {
		return 0, err
	}

	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size number %q: %w", numStr, err)
	}

	multiplier, ok := LookupMultiplier(unitStr)
	if !ok {
		return 0, fmt.Errorf("unknown size unit %q", unitStr)
	}

	bytes := num * float64(multiplier)
	if bytes != math.Trunc(bytes) {
		return 0, fmt.Errorf("size %s is not a whole number of bytes", s)
	}
	if bytes < 0 || bytes >= math.MaxInt64 {
		return 0, fmt.Errorf("size %s out of range", s)
	}

	return int64(bytes), nil
}

// splitNumberUnit splits a size string into number and unit parts.
func splitNumberUnit(s string) (numStr, unitStr string, err error) {
	unitStart := len(s)
	for i := len(s) - 1; i >= 0; i-- {
		r := rune(s[i])
		if unicode.IsDigit(r) || r == '.' {
			break
		}
		unitStart = i
	}

	if unitStart == len(s) || unitStart == 0 {
		return "", "", fmt.Errorf("invalid size format: %s", s)
	}

	return s[:unitStart], s[unitStart:], nil
}
