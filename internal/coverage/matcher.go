// Package coverage decides whether messages are covered by their sender's
// registered templates and aggregates the results of a batch run.
package coverage

import (
	"github.com/covscan/covscan/internal/normalize"
	"github.com/covscan/covscan/internal/registry"
)

// Coverer decides whether a single message is covered for a sender.
type Coverer interface {
	IsCovered(text, sender string) bool
}

// Matcher checks messages against an immutable template registry. Safe for
// concurrent use: the registry is read-only and the matcher holds no other
// state.
type Matcher struct {
	registry *registry.TemplateRegistry
}

// NewMatcher creates a matcher over the given registry.
func NewMatcher(reg *registry.TemplateRegistry) *Matcher {
	return &Matcher{registry: reg}
}

// IsCovered reports whether the message's structure matches at least one
// template registered under the sender's canonical key. An unknown sender
// is never covered. Templates are evaluated in registration order and the
// first full match wins; order only affects which template is credited,
// not the outcome.
func (m *Matcher) IsCovered(text, sender string) bool {
	templates, ok := m.registry.Templates(normalize.CanonicalSender(sender))
	if !ok {
		return false
	}

	normalized := normalize.Normalize(text)
	for _, tmpl := range templates {
		if tmpl.Matches(normalized) {
			return true
		}
	}

	return false
}

var _ Coverer = (*Matcher)(nil)
