package coverage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/covscan/covscan/internal/registry"
)

func buildRegistry(t *testing.T, sets []registry.SenderSet) *registry.TemplateRegistry {
	t.Helper()
	return registry.Build(context.Background(), sets, nil, nil)
}

func TestIsCovered(t *testing.T) {
	reg := buildRegistry(t, []registry.SenderSet{
		{Sender: "HDFC BANK", Templates: []string{
			"Your OTP is <code>.",
			"Rs. <amt> debited from a/c <acct>",
		}},
		{Sender: "EMPTY SENDER", Templates: []string{"<broken"}},
	})
	matcher := NewMatcher(reg)

	tests := []struct {
		name    string
		text    string
		sender  string
		covered bool
	}{
		{"first template", "Your OTP is 482913.", "HDFC BANK", true},
		{"second template", "Rs. 100 debited from a/c X9921", "HDFC BANK", true},
		{"case and spacing", "YOUR otp IS   0000.", "hdfc bank", true},
		{"whitespace around punctuation", "rs.100 debited from a/c X1", "HDFC BANK", true},
		{"no structural match", "Your PIN is 482913.", "HDFC BANK", false},
		{"unknown sender", "Your OTP is 482913.", "ICICI", false},
		{"sender with no usable templates", "anything at all", "EMPTY SENDER", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.covered, matcher.IsCovered(tt.text, tt.sender))
		})
	}
}

func TestIsCoveredSenderCanonicalization(t *testing.T) {
	reg := buildRegistry(t, []registry.SenderSet{
		{Sender: "STATE BANK", Templates: []string{"balance is <bal>"}},
	})
	matcher := NewMatcher(reg)

	// Message-side sender spellings must align through the canonical
	// transform.
	assert.True(t, matcher.IsCovered("balance is 42", "state bank"))
	assert.True(t, matcher.IsCovered("balance is 42", "  State   Bank "))
	assert.False(t, matcher.IsCovered("balance is 42", "STATEBANK"))
}

func TestIsCoveredMultipleMatches(t *testing.T) {
	// Multiple templates may legitimately match; the outcome is the same
	// boolean either way.
	reg := buildRegistry(t, []registry.SenderSet{
		{Sender: "ACME", Templates: []string{"<all>", "hello <name>"}},
	})
	matcher := NewMatcher(reg)

	assert.True(t, matcher.IsCovered("hello world", "ACME"))
}
