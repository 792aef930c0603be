package newsutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnifiedLayout is the canonical publication date format stored in the
// database, always UTC.
const UnifiedLayout = "2006-01-02 15:04:05"

// ErrDateParse marks a publication date no known layout could parse.
var ErrDateParse = errors.New("unrecognized date format")

// UnifiedLayout first so canonical input round-trips unchanged.
var dateLayouts = []string{
	UnifiedLayout,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02",
}

// UnifyDate converts a feed timestamp into UnifiedLayout in UTC. Returns an
// error wrapping ErrDateParse when no layout matches.
func UnifyDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrDateParse)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(UnifiedLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrDateParse, s)
}

// ParseUnified parses a canonical publication date back into a UTC time.
func ParseUnified(s string) (time.Time, error) {
	return time.ParseInLocation(UnifiedLayout, s, time.UTC)
}
