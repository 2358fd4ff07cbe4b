package service

import (
	"strings"
	"time"
)

// birthDateLayouts are tried in order. Day-first input is the fallback.
var birthDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"02-01-2006",
}

// ParseBirthDate parses a date of birth in year-first or day-first layout.
// It returns nil when the input is empty or matches no layout.
func ParseBirthDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range birthDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}
