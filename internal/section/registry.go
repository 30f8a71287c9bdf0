package section

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrEmptyRegistry is returned when a registry is built with no sections.
var ErrEmptyRegistry = errors.New("section: registry has no sections")

// Registry is the fixed, ordered set of known sections. It is read-only after
// construction and may be shared across goroutines without locking.
type Registry struct {
	sections []Section
	byID     map[string]Section
}

// NewRegistry creates a Registry holding sections in the given order.
// Duplicate or empty ids and an empty list are configuration errors.
func NewRegistry(sections ...Section) (*Registry, error) {
	if len(sections) == 0 {
		return nil, ErrEmptyRegistry
	}
	r := &Registry{
		sections: make([]Section, 0, len(sections)),
		byID:     make(map[string]Section, len(sections)),
	}
	for i, s := range sections {
		if s == nil {
			return nil, fmt.Errorf("section: nil section at position %d", i)
		}
		id := s.ID()
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("section: empty id at position %d", i)
		}
		if _, exists := r.byID[id]; exists {
			return nil, fmt.Errorf("section: %s already registered", id)
		}
		r.byID[id] = s
		r.sections = append(r.sections, s)
	}
	return r, nil
}

// MustRegistry panics if registration fails.
func MustRegistry(sections ...Section) *Registry {
	r, err := NewRegistry(sections...)
	if err != nil {
		panic(err)
	}
	return r
}

// Builtins returns the built-in sections in their canonical order.
func Builtins() []Section {
	return []Section{
		BrandRecognitionSection,
		MarketCompetitionSection,
		SentimentSection,
		StrengthsWeaknessesSection,
		OpportunitiesThreatsSection,
	}
}

// Default returns a registry of all built-in sections.
func Default() *Registry {
	return MustRegistry(Builtins()...)
}

// Select returns the built-in sections named by ids, in built-in order. Unlike
// Resolve, an unknown id is an error: Select is used for startup
// configuration, where a typo should fail loudly.
func Select(ids []string) ([]Section, error) {
	builtins := Builtins()
	if len(ids) == 0 {
		return builtins, nil
	}
	known := make(map[string]bool, len(builtins))
	for _, s := range builtins {
		known[s.ID()] = true
	}
	for _, id := range ids {
		if !known[id] {
			return nil, fmt.Errorf("section: unknown id %s", id)
		}
	}
	var out []Section
	for _, s := range builtins {
		if slices.Contains(ids, s.ID()) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Resolve returns the sections to run for a request. A nil or empty ids
// selects every registered section. Otherwise the registered sections whose
// id appears in ids are returned in registration order; ids that match no
// section are ignored.
func (r *Registry) Resolve(ids []string) []Section {
	if len(ids) == 0 {
		return r.All()
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]Section, 0, min(len(ids), len(r.sections)))
	for _, s := range r.sections {
		if wanted[s.ID()] {
			out = append(out, s)
		}
	}
	return out
}

// All returns every registered section in registration order.
func (r *Registry) All() []Section {
	return slices.Clone(r.sections)
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.sections))
	for i, s := range r.sections {
		ids[i] = s.ID()
	}
	return ids
}

// Lookup returns the section registered under id.
func (r *Registry) Lookup(id string) (Section, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// Len returns the number of registered sections.
func (r *Registry) Len() int { return len(r.sections) }
