package models

import (
	"errors"
	"time"
	"unicode/utf8"
)

const (
	DateLayout = "2006-01-02"
)

// ValidationError is returned by the Validate methods when an entity breaks
// one of its invariants. The message is safe to hand back to clients.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// shorterThan counts characters, not bytes.
func shorterThan(s string, n int) bool {
	return utf8.RuneCountInString(s) < n
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
