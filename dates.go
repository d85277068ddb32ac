package folio

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

const (
	displayDateLayout = "Jan 2, 2006"
	isoDateLayout     = "2006-01-02"
)

// FormatDate renders t the way post listings show dates, e.g. "Jun 13, 2025".
func FormatDate(t time.Time) string {
	return t.Format(displayDateLayout)
}

// ISODate renders t as YYYY-MM-DD for <time datetime> and sitemaps.
func ISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// ParseDate coerces a front matter value into a timestamp. Strings are parsed
// in UTC with any layout dateparse recognises; YAML timestamps pass through.
func ParseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		if d == "" {
			return time.Time{}, fmt.Errorf("empty date")
		}
		t, err := dateparse.ParseIn(d, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", d, err)
		}
		return t, nil
	case int:
		// bare years such as `pubDate: 2024`
		return time.Date(d, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	case nil:
		return time.Time{}, fmt.Errorf("missing date")
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v (%T)", v, v)
	}
}
