// Package registry builds and holds the immutable mapping from canonical
// sender keys to their compiled template lists.
//
// The registry is constructed once before any matching begins and is
// thereafter read-only, so concurrent reads by evaluation workers need no
// locking.
package registry

import (
	"context"
	"sort"

	"github.com/covscan/covscan/internal/errors"
	"github.com/covscan/covscan/internal/logging"
	"github.com/covscan/covscan/internal/normalize"
	"github.com/covscan/covscan/internal/template"
)

// TemplateRegistry maps canonical sender keys to their compiled templates.
// A sender whose templates all failed to compile keeps an entry with an
// empty list: "no templates available" is a distinct state from "sender
// unknown".
type TemplateRegistry struct {
	templates map[string][]*template.CompiledTemplate
}

// Templates returns the compiled template list for a canonical sender key.
// The second return value reports whether the sender is known at all.
func (r *TemplateRegistry) Templates(senderKey string) ([]*template.CompiledTemplate, bool) {
	templates, ok := r.templates[senderKey]
	return templates, ok
}

// Lookup canonicalizes the given sender identity and returns its compiled
// template list.
func (r *TemplateRegistry) Lookup(sender string) ([]*template.CompiledTemplate, bool) {
	return r.Templates(normalize.CanonicalSender(sender))
}

// Senders returns all registered canonical sender keys, sorted.
func (r *TemplateRegistry) Senders() []string {
	senders := make([]string, 0, len(r.templates))
	for sender := range r.templates {
		senders = append(senders, sender)
	}
	sort.Strings(senders)
	return senders
}

// SenderCount returns the number of registered senders.
func (r *TemplateRegistry) SenderCount() int {
	return len(r.templates)
}

// TemplateCount returns the total number of compiled templates.
func (r *TemplateRegistry) TemplateCount() int {
	total := 0
	for _, templates := range r.templates {
		total += len(templates)
	}
	return total
}

// Build compiles every raw template in the given sender sets and assembles
// the registry. Compilation failures are localized: the offending template
// is dropped, logged, and recorded in the collector, and loading continues
// for the remaining templates of that sender and all other senders. Build
// itself never fails.
func Build(ctx context.Context, sets []SenderSet, log logging.Logger, collector *errors.ErrorCollector) *TemplateRegistry {
	if log == nil {
		log = logging.Nop()
	}
	log = log.WithComponent("registry")

	templates := make(map[string][]*template.CompiledTemplate, len(sets))

	for _, set := range sets {
		compiled := templates[set.Sender]
		if compiled == nil {
			// Any raw template source occupies an entry, even if nothing
			// compiles for it.
			compiled = make([]*template.CompiledTemplate, 0, len(set.Templates))
		}

		for _, raw := range set.Templates {
			tmpl, err := template.Compile(raw)
			if err != nil {
				log.Warn(ctx, err, "dropping template that failed to compile",
					"sender", set.Sender,
					"source", set.Path,
				)
				if collector != nil {
					var ce *errors.CovscanError
					if errors.AsCovscan(err, &ce) {
						collector.Add(ce.WithSender(set.Sender).WithLocation(set.Path, 0))
					}
				}
				continue
			}
			compiled = append(compiled, tmpl)
		}

		templates[set.Sender] = compiled
	}

	log.Info(ctx, "template registry built",
		"senders", len(templates),
		"templates", countTemplates(templates),
	)

	return &TemplateRegistry{templates: templates}
}

func countTemplates(m map[string][]*template.CompiledTemplate) int {
	total := 0
	for _, templates := range m {
		total += len(templates)
	}
	return total
}
