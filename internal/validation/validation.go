// Package validation provides input validation utilities to prevent security vulnerabilities
// such as command injection, path traversal, and other input-based attacks.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput         = errors.New("input cannot be empty")
	ErrInvalidPackageName = errors.New("invalid package name")
	ErrInvalidPPA         = errors.New("invalid PPA format")
	ErrInvalidSnapName    = errors.New("invalid snap name")
	ErrPathTraversal      = errors.New("path traversal detected")
	ErrInvalidPath        = errors.New("invalid path")
	ErrCommandInjection   = errors.New("potential command injection detected")
	ErrNewlineInjection   = errors.New("newline injection detected")
	ErrInvalidGitConfig   = errors.New("invalid git config value")
	ErrInvalidURL         = errors.New("invalid URL")
	ErrInvalidIdentifier  = errors.New("invalid identifier")
)

// Compiled regex patterns for validation (compiled once for performance).
var (
	// packageNameRegex matches valid apt package names: alphanumeric, hyphens, underscores, dots, plus
	// Examples: "git", "build-essential", "python3.11", "g++"
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+-]*$`)

	// ppaRegex matches valid PPA format: "ppa:owner/name" or "owner/name"
	// Examples: "ppa:deadsnakes/ppa", "git-core/ppa"
	ppaRegex = regexp.MustCompile(`^(ppa:)?[a-zA-Z0-9_-]+/[a-zA-Z0-9_-]+$`)

	// snapNameRegex matches valid snap names: lowercase letters, digits, single hyphens
	// Examples: "code", "spotify", "kubectl"
	snapNameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

	// urlRegex matches valid HTTP/HTTPS download URLs
	// Examples: "https://dl.discordapp.net/apps/linux/discord.deb"
	urlRegex = regexp.MustCompile(`^https?://[a-zA-Z0-9][a-zA-Z0-9._/?=&%+-]*$`)

	// configSafeRegex matches safe config values (no newlines, no control chars)
	configSafeRegex = regexp.MustCompile(`^[^\x00-\x1f\x7f]*$`)

	// identifierRegex matches safe identifiers for keys, device names, group names
	// Examples: "HandleLidSwitch", "XHC0", "docker"
	identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

	// shellMetaChars contains shell metacharacters that could enable injection
	shellMetaChars = []string{";", "|", "&", "$", "`", "(", ")", "{", "}", "<", ">", "\n", "\r", "\\"}
)

// ValidatePackageName validates an apt package name.
// Returns an error if the name is empty or contains invalid characters.
func ValidatePackageName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	// Check for maximum length (reasonable limit)
	if len(name) > 256 {
		return fmt.Errorf("%w: name too long (max 256 characters)", ErrInvalidPackageName)
	}

	// Check against valid pattern
	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidPackageName, name)
	}

	// Check for shell metacharacters (defense in depth)
	if containsShellMeta(name) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, name)
	}

	return nil
}

// ValidatePPA validates an APT PPA name.
func ValidatePPA(ppa string) error {
	if ppa == "" {
		return ErrEmptyInput
	}

	if len(ppa) > 256 {
		return fmt.Errorf("%w: PPA name too long", ErrInvalidPPA)
	}

	if !ppaRegex.MatchString(ppa) {
		return fmt.Errorf("%w: %q must be in 'ppa:owner/name' or 'owner/name' format", ErrInvalidPPA, ppa)
	}

	if containsShellMeta(ppa) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, ppa)
	}

	return nil
}

// ValidateSnapName validates a snap package name.
// Snap names are lowercase with digits and internal hyphens.
func ValidateSnapName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if len(name) > 40 {
		return fmt.Errorf("%w: snap name too long (max 40 characters)", ErrInvalidSnapName)
	}

	if !snapNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q must be lowercase letters, digits and hyphens", ErrInvalidSnapName, name)
	}

	return nil
}

// ValidateURL validates a download URL for installer packages.
func ValidateURL(urlStr string) error {
	if urlStr == "" {
		return ErrEmptyInput
	}

	if len(urlStr) > 2048 {
		return fmt.Errorf("%w: URL too long", ErrInvalidURL)
	}

	if !urlRegex.MatchString(urlStr) {
		return fmt.Errorf("%w: %q must be a valid HTTP/HTTPS URL", ErrInvalidURL, urlStr)
	}

	if containsShellMeta(urlStr) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, urlStr)
	}

	return nil
}

// ValidatePath validates a file path and prevents path traversal attacks.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}

	// Check for null bytes
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	// Check for path traversal sequences
	if containsPathTraversal(path) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, path)
	}

	return nil
}

// ValidateGitConfigValue validates a git config value for injection attacks.
func ValidateGitConfigValue(value string) error {
	// Check for newlines which could inject additional config lines
	if strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("%w: git config value contains newlines", ErrNewlineInjection)
	}

	// Check for control characters
	if !configSafeRegex.MatchString(value) {
		return fmt.Errorf("%w: contains control characters", ErrInvalidGitConfig)
	}

	return nil
}

// ValidateConfigLine validates a single line destined for a config file.
// Newlines would let one managed line smuggle additional lines into the file.
func ValidateConfigLine(line string) error {
	if line == "" {
		return ErrEmptyInput
	}

	if strings.ContainsAny(line, "\n\r") {
		return fmt.Errorf("%w: line contains newlines", ErrNewlineInjection)
	}

	return nil
}

// ValidateIdentifier validates a bare identifier such as a logind key,
// an ACPI device name, or a Unix group name.
func ValidateIdentifier(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if len(name) > 128 {
		return fmt.Errorf("%w: identifier too long", ErrInvalidIdentifier)
	}

	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidIdentifier, name)
	}

	return nil
}

// containsShellMeta checks if a string contains shell metacharacters.
func containsShellMeta(s string) bool {
	for _, char := range shellMetaChars {
		if strings.Contains(s, char) {
			return true
		}
	}
	return false
}

// containsPathTraversal checks for common path traversal patterns.
func containsPathTraversal(path string) bool {
	// Normalize the path to catch encoded traversal attempts
	normalized := filepath.Clean(path)

	// Check for ".." sequences in the normalized path
	segments := strings.Split(normalized, string(filepath.Separator))
	for _, seg := range segments {
		if seg == ".." {
			return true
		}
	}

	// Check for URL-encoded traversal
	if strings.Contains(path, "%2e%2e") || strings.Contains(path, "%2E%2E") {
		return true
	}

	return false
}
