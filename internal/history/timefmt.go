package history

import (
	"fmt"
	"strings"
	"time"
)

// Layouts the backend uses for created_at. Timestamps without a zone are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a backend timestamp, treating zone-less values as UTC
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// RelativeTime renders a backend timestamp relative to now: "Just now",
// "5m ago", "3h ago", or the calendar date once a day has passed.
func RelativeTime(createdAt string, now time.Time) string {
	t, err := ParseTimestamp(createdAt)
	if err != nil {
		return "Unknown"
	}

	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	default:
		return t.Format("Jan 2, 2006")
	}
}
