package shared

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate accepts RFC3339 or YYYY-MM-DD and returns the calendar day at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := parsed.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// OptionalDate records an issue on a malformed value and returns nil when blank.
func (v *Validator) OptionalDate(field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, ok := v.Date(field, raw)
	if !ok {
		return nil
	}
	return &parsed
}

// YearMonth reads year and month, defaulting each to now.
func (v *Validator) YearMonth(rawYear, rawMonth string, now time.Time) (int, int) {
	year, month := now.Year(), int(now.Month())
	if raw := strings.TrimSpace(rawYear); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1970 || parsed > 9999 {
			v.Add("year", "must be a four digit year")
		} else {
			year = parsed
		}
	}
	if raw := strings.TrimSpace(rawMonth); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			v.Add("month", "must be between 1 and 12")
		} else {
			month = parsed
		}
	}
	return year, month
}
