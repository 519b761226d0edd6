// Package redact masks sensitive substrings in text before it is persisted.
//
// This is a best-effort scrub of the most common PII shapes (email
// addresses and North-American phone numbers), not a compliance
// guarantee. Anything that must never be stored should not be logged
// in the first place.
package redact

import "regexp"

const (
	// EmailToken replaces matched email addresses.
	EmailToken = "[REDACTED_EMAIL]"
	// PhoneToken replaces matched phone numbers.
	PhoneToken = "[REDACTED_PHONE]"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
)

// Redact replaces email addresses and phone numbers in s with fixed
// tokens. The two patterns target disjoint character sequences, so the
// application order does not matter and the result is idempotent.
func Redact(s string) string {
	s = emailRe.ReplaceAllString(s, EmailToken)
	s = phoneRe.ReplaceAllString(s, PhoneToken)
	return s
}
