package utils

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for transaction dates in snapshots and
// request payloads.
const DateLayout = "2006-01-02"

// GetErrorMessages flattens validator errors into field => rule pairs for
// API responses.
func GetErrorMessages(validationErrors validator.ValidationErrors) map[string]string {
	errorResponse := make(map[string]string)
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}

// ParseDate accepts the canonical layout plus the ISO-ish variants older
// snapshots contain.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		DateLayout,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"01-02-06", // excel short date
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// TruncateToDate drops the time-of-day component; running balances order by
// calendar date with insertion order as the tiebreak.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
