package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Your OTP Is 482913", "your otp is 482913"},
		{"trims", "  hello  ", "hello"},
		{"collapses runs", "rs.\t\t100   debited", "rs. 100 debited"},
		{"newlines collapse", "line one\nline two", "line one line two"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"already normal", "already normal", "already normal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Your OTP is 482913.",
		"  RS.  100   Debited  ",
		"",
		"MiXeD\tCaSe\nText",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", input)
	}
}

func TestCanonicalSender(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"uppercases", "hdfc bank", "HDFC BANK"},
		{"trims", "  AXIS  ", "AXIS"},
		{"collapses internal", "STATE   BANK", "STATE BANK"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalSender(tt.input))
		})
	}
}

func TestCanonicalSenderAgreement(t *testing.T) {
	// The same identity spelled differently in the template source name and
	// the message data must canonicalize identically.
	assert.Equal(t, CanonicalSender("hdfc bank"), CanonicalSender("  HDFC   BANK\t"))
}
