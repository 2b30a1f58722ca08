package seedfinder

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("invalid search configuration")
	ErrConflict      = errors.New("conflicting observation")
)

// ConfigurationError rejects a search, or an observation, before any work is done.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ConfigErrorf builds a ConfigurationError for a named field.
func ConfigErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConflictError is returned when an observation disagrees with one already in
// the set for the same feature and locator.
type ConflictError struct {
	Kind     FeatureKind
	Locator  Locator
	Existing Value
	Rejected Value
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s at %s already observed as %d, got %d",
		e.Kind, e.Locator, e.Existing, e.Rejected)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
