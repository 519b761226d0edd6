package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "email",
			input: "contact jane.doe+billing@example.co.uk for details",
			want:  "contact [REDACTED_EMAIL] for details",
		},
		{
			name:  "phone with dashes",
			input: "call 415-555-0134 now",
			want:  "call [REDACTED_PHONE] now",
		},
		{
			name:  "phone with dots",
			input: "call 415.555.0134 now",
			want:  "call [REDACTED_PHONE] now",
		},
		{
			name:  "bare ten digits",
			input: "fax 4155550134 arrived",
			want:  "fax [REDACTED_PHONE] arrived",
		},
		{
			name:  "email and phone together",
			input: "bob@corp.io or 212-555-9988",
			want:  "[REDACTED_EMAIL] or [REDACTED_PHONE]",
		},
		{
			name:  "nothing sensitive",
			input: "cancel my gold plan please",
			want:  "cancel my gold plan please",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "short digit run untouched",
			input: "order 123456 shipped",
			want:  "order 123456 shipped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redact(tt.input))
		})
	}
}

func TestRedactIdempotent(t *testing.T) {
	inputs := []string{
		"mail me at a@b.com or ring 303-555-1212",
		"[REDACTED_EMAIL] already scrubbed",
		"plain text",
	}
	for _, in := range inputs {
		once := Redact(in)
		assert.Equal(t, once, Redact(once), "redaction must be idempotent for %q", in)
	}
}
