package view

import (
	"strings"
	"time"
)

// Tried in order; the first layout that parses wins.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"02.01.2006",
	"02.01.2006 15:04",
	time.RFC1123Z,
	time.RFC1123,
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate reads user or API dates. Values without an offset are taken in loc.
func ParseDate(input string) (time.Time, bool) {
	return ParseDateIn(input, time.Local)
}

func ParseDateIn(input string, loc *time.Location) (time.Time, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		parsed, err := time.ParseInLocation(layout, input, loc)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an API timestamp in the local zone as dd.MM.yyyy HH:mm,
// or returns the input unchanged when it cannot be parsed.
func FormatDate(input string) string {
	parsed, ok := ParseDate(input)
	if !ok {
		return input
	}
	parsed = parsed.In(time.Local)
	if parsed.Hour() == 0 && parsed.Minute() == 0 && parsed.Second() == 0 {
		return parsed.Format("02.01.2006")
	}
	return parsed.Format("02.01.2006 15:04")
}
