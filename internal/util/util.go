// Package util provides common string helpers used when parsing command
// arguments arriving from the UI or over the wire.
package util

import (
	"fmt"
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// ParseXY parses a coordinate argument in the format "[x,y]" or "x,y" into
// its two components.
func ParseXY(s string) (x, y float64, err error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two coordinate components, got %d", len(parts))
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x component %q", parts[0])
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y component %q", parts[1])
	}
	return x, y, nil
}

// FormatXY renders a coordinate pair in the "[x,y]" argument format.
func FormatXY(x, y float64) string {
	return fmt.Sprintf("[%s,%s]",
		strconv.FormatFloat(x, 'f', -1, 64),
		strconv.FormatFloat(y, 'f', -1, 64))
}
