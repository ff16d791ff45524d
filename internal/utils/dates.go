package utils

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseOptionalDate parses an ISO date. Empty or malformed input yields nil.
func ParseOptionalDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

// OptionalString returns nil for blank input and the trimmed value otherwise.
func OptionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
