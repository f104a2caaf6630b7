package step

import (
	"fmt"
	"strings"
)

// Error codes for step operations.
const (
	ErrCodeProviderFailed = "PROVIDER_FAILED"
	ErrCodeCheckFailed    = "CHECK_FAILED"
	ErrCodeApplyFailed    = "APPLY_FAILED"
)

// Error is a user-facing step error with an actionable suggestion.
type Error struct {
	Code       string // Error code for categorization
	Message    string // User-friendly error message
	Provider   string // Provider that caused the error
	StepID     string // Step ID if applicable
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	var parts []string

	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider %q", e.Provider))
	}
	if e.StepID != "" {
		parts = append(parts, fmt.Sprintf("step %q", e.StepID))
	}

	if len(parts) > 0 {
		return fmt.Sprintf("%s: %s", strings.Join(parts, ", "), e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Format returns a fully formatted error with all details.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Provider != "" {
		b.WriteString(fmt.Sprintf("\n  Provider: %s", e.Provider))
	}
	if e.StepID != "" {
		b.WriteString(fmt.Sprintf("\n  Step: %s", e.StepID))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  Suggestion: %s", e.Suggestion))
	}
	if e.Underlying != nil {
		b.WriteString(fmt.Sprintf("\n  Cause: %s", e.Underlying.Error()))
	}

	return b.String()
}

// NewProviderFailedError creates an error for provider compilation failure.
func NewProviderFailedError(provider string, err error) *Error {
	return &Error{
		Code:       ErrCodeProviderFailed,
		Message:    "provider failed to compile steps",
		Provider:   provider,
		Suggestion: fmt.Sprintf("Check the %s section of your configuration for syntax errors or missing required fields.", provider),
		Underlying: err,
	}
}

// NewCheckFailedError creates an error for a failed desired-state probe.
func NewCheckFailedError(stepID string, err error) *Error {
	return &Error{
		Code:       ErrCodeCheckFailed,
		Message:    "step status check failed",
		StepID:     stepID,
		Suggestion: "The step could not determine its current status. This may be a transient error; re-run to retry.",
		Underlying: err,
	}
}

// NewApplyFailedError creates an error for a failed mutation.
func NewApplyFailedError(stepID string, err error) *Error {
	return &Error{
		Code:       ErrCodeApplyFailed,
		Message:    "step failed to apply",
		StepID:     stepID,
		Suggestion: "Fix the underlying problem and re-run; steps that already succeeded will be skipped.",
		Underlying: err,
	}
}
