// Package normalize provides the text canonicalization shared by message
// matching and template compilation. Messages and the literal segments of
// templates pass through the same transform so that spacing and casing
// differences never cause spurious mismatches.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize canonicalizes raw message or template text: lowercase, trim
// leading/trailing whitespace, and collapse every run of whitespace to a
// single space. The transform is idempotent.
func Normalize(text string) string {
	lowered := cases.Lower(language.Und).String(text)
	return strings.Join(strings.Fields(lowered), " ")
}

// CanonicalSender derives the canonical sender key used to align template
// sources with message records: uppercase, trim, collapse internal
// whitespace. Both sides of a lookup must go through this transform.
func CanonicalSender(sender string) string {
	uppered := cases.Upper(language.Und).String(sender)
	return strings.Join(strings.Fields(uppered), " ")
}
