// Package template compiles sender message templates into anchored
// matchable patterns.
//
// A template is plain text with placeholder spans delimited by '<' and '>'
// (for example "Rs. <amt> debited from a/c <acct>"). Compilation lowercases
// and whitespace-collapses the literal segments, relaxes single spaces so
// compressed or expanded spacing still matches, and turns each placeholder
// into a non-greedy wildcard. The resulting pattern is anchored to the
// entire normalized message: a template is a contract on the whole message
// shape, not a fragment of it.
//
// Known ambiguity: message text that legitimately contains '<' or '>' is
// indistinguishable from placeholder markup. Balanced spans are always
// treated as placeholders; unbalanced markers are a compile error.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/covscan/covscan/internal/errors"
	"github.com/covscan/covscan/internal/normalize"
)

// RawTemplate is a template string as loaded from a sender's template
// source, before compilation.
type RawTemplate struct {
	Sender string // canonical sender key
	Text   string
	Source string // file the template was loaded from
}

// CompiledTemplate is an anchored pattern over normalized text. Compilation
// is a pure function of the template text: the same input always yields the
// same pattern. A CompiledTemplate is immutable and safe for concurrent use.
type CompiledTemplate struct {
	raw     string
	pattern *regexp.Regexp
}

// Raw returns the original template text.
func (t *CompiledTemplate) Raw() string {
	return t.raw
}

// Pattern returns the compiled pattern source, mainly for diagnostics.
func (t *CompiledTemplate) Pattern() string {
	return t.pattern.String()
}

// Matches reports whether the already-normalized message text matches the
// template over its full length.
func (t *CompiledTemplate) Matches(normalized string) bool {
	return t.pattern.MatchString(normalized)
}

// Compile converts a raw template string into a CompiledTemplate.
//
// The template is normalized, split into alternating literal and
// placeholder segments, and assembled into a single anchored pattern:
// literals are escaped with spaces relaxed to `\s*`, placeholders become
// `.*?` (a placeholder may match the empty string). Unbalanced placeholder
// markers or a malformed resulting expression yield a compile error; the
// caller is expected to drop the template and continue.
func Compile(raw string) (*CompiledTemplate, error) {
	text := normalize.Normalize(raw)

	segments, err := splitPlaceholders(text)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("^")
	for _, seg := range segments {
		if seg.placeholder {
			b.WriteString(".*?")
			continue
		}
		escaped := regexp.QuoteMeta(seg.text)
		// Relax literal spaces so "rs. 100" also matches "rs.100".
		escaped = strings.ReplaceAll(escaped, " ", `\s*`)
		b.WriteString(escaped)
	}
	b.WriteString("$")

	pattern, err := regexp.Compile(b.String())
	if err != nil {
		return nil, errors.NewCompileError(errors.ErrCodePatternCompile,
			fmt.Sprintf("template %q produced a malformed pattern", raw), err)
	}

	return &CompiledTemplate{raw: raw, pattern: pattern}, nil
}

type segment struct {
	text        string
	placeholder bool
}

// splitPlaceholders splits normalized template text into an alternating
// sequence of literal and placeholder segments. Every '<' must be closed by
// a '>' and no stray '>' may appear in literal text.
func splitPlaceholders(text string) ([]segment, error) {
	var segments []segment

	rest := text
	for {
		open := strings.IndexByte(rest, '<')
		if open < 0 {
			if strings.IndexByte(rest, '>') >= 0 {
				return nil, errors.NewCompileError(errors.ErrCodeUnbalancedMarker,
					fmt.Sprintf("unbalanced '>' in template %q", text), nil)
			}
			if rest != "" {
				segments = append(segments, segment{text: rest})
			}
			return segments, nil
		}

		literal := rest[:open]
		if strings.IndexByte(literal, '>') >= 0 {
			return nil, errors.NewCompileError(errors.ErrCodeUnbalancedMarker,
				fmt.Sprintf("unbalanced '>' in template %q", text), nil)
		}
		if literal != "" {
			segments = append(segments, segment{text: literal})
		}

		end := strings.IndexByte(rest[open:], '>')
		if end < 0 {
			return nil, errors.NewCompileError(errors.ErrCodeUnbalancedMarker,
				fmt.Sprintf("unclosed '<' in template %q", text), nil)
		}

		segments = append(segments, segment{
			text:        rest[open : open+end+1],
			placeholder: true,
		})
		rest = rest[open+end+1:]
	}
}
