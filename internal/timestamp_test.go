package internal

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestFormatTimestamp(t *testing.T) {
	c := qt.New(t)
	madrid := time.FixedZone("CET", 3600)
	ts := time.Date(2025, time.January, 1, 1, 0, 0, 999_000_000, madrid)
	c.Assert(FormatTimestamp(ts), qt.Equals, "2025-01-01T00:00:00Z")
}

func TestParseTimestamp(t *testing.T) {
	c := qt.New(t)

	ts, err := ParseTimestamp("2025-02-01T00:00:00Z")
	c.Assert(err, qt.IsNil)
	c.Assert(ts.Equal(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)), qt.IsTrue)
	c.Assert(ts.Location(), qt.Equals, time.UTC)

	ts, err = ParseTimestamp("2025-02-01T02:00:00+02:00")
	c.Assert(err, qt.IsNil)
	c.Assert(ts.Equal(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)), qt.IsTrue)

	for _, bad := range []string{
		"", "2025-02-01", "yesterday", "2025-02-01 00:00:00",
		" 2025-02-01T00:00:00Z", "2025-02-01T00:00:00Z\n", "\t2025-02-01T00:00:00Z ",
	} {
		_, err := ParseTimestamp(bad)
		c.Assert(err, qt.IsNotNil, qt.Commentf("input %q", bad))
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	c := qt.New(t)
	const s = "2025-01-01T00:00:00Z"
	ts, err := ParseTimestamp(s)
	c.Assert(err, qt.IsNil)
	c.Assert(FormatTimestamp(ts), qt.Equals, s)
}
