package errors

import (
	"strings"
	"unicode"
)

// ValidateJournalName validates a journal name before registry lookup.
// It rejects names that could not possibly match a registered standard
// so that lookup errors stay meaningful.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateJournalName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "journal name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "journal name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "journal name contains invalid control characters")
		}
	}

	return nil
}

// ValidateScenePath validates a scene file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateScenePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "scene path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "scene path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "scene path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "scene path cannot contain traversal sequences")
	}

	return nil
}

// ValidateFraction validates that a threshold value is a fraction in [0, 1].
// Used for occlusion and size-tolerance configuration.
func ValidateFraction(name string, v float64) error {
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidThreshold, "%s must be in [0, 1], got %g", name, v)
	}
	return nil
}
