package events

import (
	"fmt"
	"strconv"
	"strings"
)

// TimestampParseError reports a textual timestamp that does not decompose
// into an integer minutes part and a numeric seconds part. Malformed input
// is surfaced to the caller instead of being substituted with 0.0.
type TimestampParseError struct {
	Input string
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("parse timestamp %q: expected mm:ss.ff", e.Input)
}

// ParseTimestamp converts the upstream textual form "mm:ss.ff" to seconds.
// The minutes part must be a non-negative integer and the seconds part a
// non-negative number; anything else returns a *TimestampParseError.
func ParseTimestamp(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, &TimestampParseError{Input: s}
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return 0, &TimestampParseError{Input: s}
	}
	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || seconds < 0 {
		return 0, &TimestampParseError{Input: s}
	}
	return float64(minutes)*60 + seconds, nil
}
