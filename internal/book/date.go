package book

import (
	"strings"
	"time"
)

// dateLayouts are the formats accepted for the free-form DateRead field.
// Goodreads exports use "2006/01/02"; other tools emit ISO or locale dates.
var dateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// RecentWindowDays is how far back a read date counts as recent.
const RecentWindowDays = 30

// ParseDateRead parses a free-form read date. The second return value is
// false when the value is empty or matches no known layout.
func ParseDateRead(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsRecent reports whether a read date falls within the last 30 days,
// inclusive of today. Future dates and unparseable values are not recent.
// The comparison is by calendar day, so time-of-day never shifts the window.
func IsRecent(raw string, now time.Time) bool {
	read, ok := ParseDateRead(raw)
	if !ok {
		return false
	}

	days := int(truncateToDay(now).Sub(truncateToDay(read)).Hours() / 24)
	return days >= 0 && days <= RecentWindowDays
}

// truncateToDay drops the time-of-day component.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
