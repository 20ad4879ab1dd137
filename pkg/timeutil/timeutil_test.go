package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateOnlyIsUTCMidnight(t *testing.T) {
	parsed, err := ParseISO8601("2026-02-25")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC), parsed)
	assert.Equal(t, "2026-02-25T00:00:00Z", FormatISO8601(parsed))
}

func TestParseFullTimestamp(t *testing.T) {
	parsed, err := ParseISO8601("2026-02-25T13:45:09Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 25, 13, 45, 9, 0, time.UTC), parsed)
}

func TestRoundTrip(t *testing.T) {
	times := []time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 6, 15, 8, 30, 0, 0, time.UTC),
	}
	for _, want := range times {
		parsed, err := ParseISO8601(FormatISO8601(want))
		require.NoError(t, err)
		assert.True(t, parsed.Equal(want))
	}
}

func TestFormatConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	local := time.Date(2026, 2, 25, 14, 0, 0, 0, loc)
	assert.Equal(t, "2026-02-25T12:00:00Z", FormatISO8601(local))
}

func TestParseRejectsMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"2026",
		"2026-02",
		"25-02-2026",
		"2026/02/25",
		"2026-02-25T13:45:09",
		"2026-02-25 13:45:09Z",
		"2026-02-25T13:45:09+01:00",
		"not-a-date!",
		"2026-13-40",
	}
	for _, input := range inputs {
		_, err := ParseISO8601(input)
		assert.Error(t, err, "input %q", input)
	}
}
