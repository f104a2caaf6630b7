package config

import "fmt"

// UserError is a configuration problem phrased for the operator: what went
// wrong, where, and what to do about it.
type UserError struct {
	Message    string
	Context    string
	Suggestion string
	Underlying error
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (at %s)", e.Message, e.Context)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// NewConfigNotFoundError creates an error for a missing config file.
func NewConfigNotFoundError(path string) *UserError {
	return &UserError{
		Message:    "configuration file not found",
		Context:    path,
		Suggestion: "Run 'groundwork plan' from your setup repository, or pass --config with the path to your groundwork.yaml.",
	}
}

// NewYAMLParseError creates an error for malformed YAML.
func NewYAMLParseError(path string, err error) *UserError {
	return &UserError{
		Message:    "configuration file is not valid YAML",
		Context:    path,
		Suggestion: "Check indentation and quoting; YAML is whitespace sensitive.",
		Underlying: err,
	}
}

// NewSettingsParseError creates an error for a malformed settings file.
func NewSettingsParseError(path string, err error) *UserError {
	return &UserError{
		Message:    "settings file is not valid TOML",
		Context:    path,
		Suggestion: "Fix the syntax error or delete the file to fall back to defaults.",
		Underlying: err,
	}
}
