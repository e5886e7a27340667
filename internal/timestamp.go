package internal

import (
	"fmt"
	"time"
)

// TimestampLayout is the text encoding used for every timestamp persisted as a
// string.
const TimestampLayout = time.RFC3339

// FormatTimestamp encodes t as an RFC 3339 string in UTC with second
// precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}

// ParseTimestamp decodes an RFC 3339 string. Offsets are honoured and the
// result is normalized to UTC. Surrounding whitespace is not accepted.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("invalid timestamp: empty")
	}
	t, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t.UTC(), nil
}
