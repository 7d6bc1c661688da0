// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"
)

// ValidationError indicates a model document or instance could not be read.
// It is about input that never reached the validation session; data-quality
// findings are reported as diagnostics instead.
type ValidationError struct {
	Cause   error
	Field   string   // Input that failed
	Message string   // Error message
	Details []string // Additional details
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s (%d issues)", e.Field, e.Message, len(e.Details))
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, cause error, details ...string) *ValidationError {
	if cause != nil && len(details) == 0 {
		details = []string{cause.Error()}
	}
	return &ValidationError{
		Cause:   cause,
		Field:   field,
		Message: message,
		Details: details,
	}
}

// ConstructionError indicates a model graph violated a structural invariant
// while it was being built. Construction is aborted; nothing is validated.
type ConstructionError struct {
	Cause   error
	Element string
	Rule    string
}

func (e *ConstructionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model construction failed for %s (%s): %v", e.Element, e.Rule, e.Cause)
	}
	return fmt.Sprintf("model construction failed for %s (%s)", e.Element, e.Rule)
}

func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// NewConstructionError creates a new construction error.
func NewConstructionError(element, rule string, cause error) *ConstructionError {
	return &ConstructionError{
		Element: element,
		Rule:    rule,
		Cause:   cause,
	}
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}
