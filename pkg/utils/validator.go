package utils

import (
	"fmt"
	"unicode"
)

// ValidateIdentifier accepts names usable unquoted as a Cypher label,
// relationship type or property key.
func ValidateIdentifier(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s must not be empty", kind)
	}

	if len(name) > 255 {
		return fmt.Errorf("%s must not exceed 255 characters", kind)
	}

	for i, char := range name {
		if char == '_' || unicode.IsLetter(char) {
			continue
		}
		if i > 0 && unicode.IsDigit(char) {
			continue
		}
		return fmt.Errorf("%s contains an invalid character %q: %s", kind, char, name)
	}

	return nil
}

// AllNonEmpty reports whether every value is non-empty.
func AllNonEmpty(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return false
		}
	}
	return true
}
