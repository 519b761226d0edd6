package agent

import (
	"errors"
	"unicode/utf8"
)

// maxInputBytes caps one user input. ~100KB.
const maxInputBytes = 100000

// ValidateInput validates user input before a turn is started.
func ValidateInput(input string) error {
	if len(input) == 0 {
		return errors.New("input cannot be empty")
	}
	if len(input) > maxInputBytes {
		return errors.New("input exceeds maximum length")
	}
	if !utf8.ValidString(input) {
		return errors.New("input must be valid UTF-8")
	}
	return nil
}
