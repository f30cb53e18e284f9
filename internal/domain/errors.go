package domain

import (
	"fmt"
	"strings"
)

// ValidationError rejects malformed input before any store mutation.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

func Validationf(format string, args ...any) ValidationError {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError aborts an operation whose business preconditions do not hold,
// e.g. insufficient stock or a quote outside the expected state.
type ConflictError struct {
	Reason string
	Lines  []LineConflict
}

// LineConflict describes one failing cart entry of an aborted checkout.
type LineConflict struct {
	ProductName string
	Available   int32
	Requested   int32
}

func (e ConflictError) Error() string {
	if len(e.Lines) == 0 {
		return e.Reason
	}

	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("%s (available: %d, requested: %d)", l.ProductName, l.Available, l.Requested))
	}

	return e.Reason + ": " + strings.Join(parts, "; ")
}

func Conflictf(format string, args ...any) ConflictError {
	return ConflictError{Reason: fmt.Sprintf(format, args...)}
}
