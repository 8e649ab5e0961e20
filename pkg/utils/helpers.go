package utils

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultTimestampLayout matches order_purchase_timestamp in the source export.
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// fallbackLayouts are tried after the configured layout.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	DefaultTimestampLayout,
	"2006-01-02",
}

// ParseDuration safely parses duration string like "5m"
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(d)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// ParseTimestamp parses s with layout first, then the common fallbacks.
// Timestamps without a zone are read as UTC.
func ParseTimestamp(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, eris.New("empty timestamp")
	}
	if layout != "" {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, l := range fallbackLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Errorf("unrecognized timestamp %q", s)
}

// ParseBound parses a date-range bound from user input. A date-only value is
// midnight of that day, the way the dashboard's date picker behaves.
func ParseBound(s string) (time.Time, error) {
	return ParseTimestamp(s, "2006-01-02")
}
