package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covscan/covscan/internal/errors"
)

func TestBuild(t *testing.T) {
	sets := []SenderSet{
		{Sender: "HDFC BANK", Path: "hdfc_bank.txt", Templates: []string{
			"Rs. <amt> debited from a/c <acct>",
			"Your OTP is <code>.",
		}},
		{Sender: "AXIS", Path: "axis.txt", Templates: []string{
			"credited with INR <amt>",
		}},
	}

	reg := Build(context.Background(), sets, nil, nil)

	assert.Equal(t, 2, reg.SenderCount())
	assert.Equal(t, 3, reg.TemplateCount())
	assert.Equal(t, []string{"AXIS", "HDFC BANK"}, reg.Senders())

	templates, ok := reg.Templates("HDFC BANK")
	require.True(t, ok)
	assert.Len(t, templates, 2)
	// Registration order is preserved.
	assert.Equal(t, "Rs. <amt> debited from a/c <acct>", templates[0].Raw())
}

func TestBuildCompileFailureIsolation(t *testing.T) {
	collector := errors.NewErrorCollector()
	sets := []SenderSet{
		{Sender: "HDFC BANK", Path: "hdfc_bank.txt", Templates: []string{
			"Your OTP is <code>.",
			"broken template <amt",
			"Rs. <amt> debited",
		}},
	}

	reg := Build(context.Background(), sets, nil, collector)

	// The malformed template is dropped; its siblings still compile.
	templates, ok := reg.Templates("HDFC BANK")
	require.True(t, ok)
	assert.Len(t, templates, 2)
	assert.Equal(t, "Your OTP is <code>.", templates[0].Raw())
	assert.Equal(t, "Rs. <amt> debited", templates[1].Raw())

	compileErrors := collector.ByType(errors.ErrorTypeCompile)
	require.Len(t, compileErrors, 1)
	assert.Equal(t, "HDFC BANK", compileErrors[0].Sender)
	assert.Equal(t, "hdfc_bank.txt", compileErrors[0].FilePath)
}

func TestBuildAllTemplatesFailed(t *testing.T) {
	sets := []SenderSet{
		{Sender: "BROKEN", Path: "broken.txt", Templates: []string{"<oops"}},
	}

	reg := Build(context.Background(), sets, nil, nil)

	// The sender still occupies an entry with an empty list: "no templates
	// available" is distinct from "sender unknown".
	templates, ok := reg.Templates("BROKEN")
	assert.True(t, ok)
	assert.Empty(t, templates)

	_, ok = reg.Templates("NEVER SEEN")
	assert.False(t, ok)
}

func TestLookupCanonicalizes(t *testing.T) {
	sets := []SenderSet{
		{Sender: "HDFC BANK", Templates: []string{"hello <x>"}},
	}
	reg := Build(context.Background(), sets, nil, nil)

	templates, ok := reg.Lookup("  hdfc   bank ")
	assert.True(t, ok)
	assert.Len(t, templates, 1)
}
