package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covscan/covscan/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func setBySender(sets []SenderSet) map[string]SenderSet {
	m := make(map[string]SenderSet, len(sets))
	for _, set := range sets {
		m[set.Sender] = set
	}
	return m
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hdfc_bank.txt", "Your OTP is <code>.\n\n# internal note\nRs. <amt> debited\n")
	writeFile(t, dir, "axis.yaml", "- credited with INR <amt>\n- \"A/c <acct> debited\"\n")
	writeFile(t, dir, "sbi.csv", "template\nbalance is <bal>\n")
	writeFile(t, dir, "notes.md", "not a template source")

	sets, err := LoadDir(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, sets, 3)

	bySender := setBySender(sets)

	hdfc := bySender["HDFC BANK"]
	assert.Equal(t, []string{"Your OTP is <code>.", "Rs. <amt> debited"}, hdfc.Templates)

	axis := bySender["AXIS"]
	assert.Equal(t, []string{"credited with INR <amt>", "A/c <acct> debited"}, axis.Templates)

	sbi := bySender["SBI"]
	assert.Equal(t, []string{"balance is <bal>"}, sbi.Templates)
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)

	var ce *errors.CovscanError
	require.True(t, errors.AsCovscan(err, &ce))
	assert.Equal(t, errors.ErrorTypeSource, ce.Type)
	assert.True(t, errors.IsFatal(err))
}

func TestLoadDirSkipsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.txt", "hello <name>\n")
	writeFile(t, dir, "bad.yaml", "\t{{not yaml")

	sets, err := LoadDir(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "GOOD", sets[0].Sender)
}

func TestSenderFromFile(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"hdfc_bank.txt", "HDFC BANK"},
		{"/tmp/templates/state_bank_of_india.yaml", "STATE BANK OF INDIA"},
		{"axis.csv", "AXIS"},
		{"already upper.TXT", "ALREADY UPPER"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SenderFromFile(tt.path), "path %q", tt.path)
	}
}

func TestParseYAMLDocumentForm(t *testing.T) {
	templates, err := parseYAML([]byte("templates:\n  - one <x>\n  - two <y>\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one <x>", "two <y>"}, templates)
}

func TestParseCSVWithoutHeader(t *testing.T) {
	templates, err := parseCSV([]byte("balance is <bal>,extra\nlow balance alert,\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"balance is <bal>", "low balance alert"}, templates)
}
