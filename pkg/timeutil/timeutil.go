// Package timeutil parses and formats the second-granularity UTC timestamps
// used on the wire. Two input shapes are accepted: a bare date (taken as UTC
// midnight) and a full Zulu timestamp.
package timeutil

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05Z"
)

// ParseISO8601 parses YYYY-MM-DD or YYYY-MM-DDTHH:MM:SSZ into a UTC time.
func ParseISO8601(value string) (time.Time, error) {
	switch len(value) {
	case len(dateLayout):
		t, err := time.ParseInLocation(dateLayout, value, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date: %w", err)
		}
		return t, nil
	case len(dateTimeLayout):
		t, err := time.ParseInLocation(dateTimeLayout, value, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp: %w", err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("invalid timestamp length %d", len(value))
	}
}

// FormatISO8601 renders t as YYYY-MM-DDTHH:MM:SSZ, always UTC.
func FormatISO8601(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}
