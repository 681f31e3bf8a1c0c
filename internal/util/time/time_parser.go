package time_parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// unix values above this are taken as milliseconds (~2001-09-09 in seconds)
const millisecondsThreshold = 1e12

var layouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp converts a query string timestamp to UTC. It accepts ISO
// forms with or without a zone (zone-less values are UTC) and unix seconds
// or milliseconds.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}

	if unix, err := strconv.ParseInt(value, 10, 64); err == nil {
		return fromUnix(unix), nil
	}

	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp format: %q", value)
}

// ParseOptionalTimestamp returns nil for an empty value.
func ParseOptionalTimestamp(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	parsed, err := ParseTimestamp(value)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}

func fromUnix(value int64) time.Time {
	if value > millisecondsThreshold {
		return time.UnixMilli(value).UTC()
	}

	return time.Unix(value, 0).UTC()
}
