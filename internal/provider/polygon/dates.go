package polygon

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const dateLayout = "2006-01-02"

// NormalizeDate reduces v to a YYYY-MM-DD calendar date. v may be a string in any
// common date or date-time format, a time.Time or a *time.Time. The date is taken
// as written: time of day is dropped and no timezone conversion is applied.
func NormalizeDate(v any) (string, error) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return "", fmt.Errorf("empty date")
		}
		return d.Format(dateLayout), nil
	case *time.Time:
		if d == nil || d.IsZero() {
			return "", fmt.Errorf("empty date")
		}
		return d.Format(dateLayout), nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return "", fmt.Errorf("empty date")
		}
		if t, err := time.Parse(dateLayout, s); err == nil {
			return t.Format(dateLayout), nil
		}
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return "", fmt.Errorf("parse date %q: %w", s, err)
		}
		return t.Format(dateLayout), nil
	case nil:
		return "", fmt.Errorf("empty date")
	default:
		return "", fmt.Errorf("unsupported date type %T", v)
	}
}
