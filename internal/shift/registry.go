// Package shift holds the immutable shift configurations the scoring engine
// is parameterized with, plus the registry used to resolve them by id.
package shift

import (
	"fmt"
	"sort"

	"ShiftEvidence/internal/domain"
)

// Registry keeps a mapping from shift ids to their configurations.
type Registry struct {
	shifts map[string]domain.Shift
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{shifts: map[string]domain.Shift{}}
}

// Register adds or replaces a shift configuration.
func (r *Registry) Register(s domain.Shift) {
	if r.shifts == nil {
		r.shifts = map[string]domain.Shift{}
	}
	r.shifts[s.ID] = s
}

// Resolve returns a shift by id or an error if it is absent.
func (r *Registry) Resolve(id string) (domain.Shift, error) {
	if s, ok := r.shifts[id]; ok {
		return s, nil
	}
	return domain.Shift{}, fmt.Errorf("shift %s is not registered", id)
}

// IDs lists the registered shift ids in lexical order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.shifts))
	for id := range r.shifts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WithDefaultWeights fills in the standard scoring weights when a
// YAML-declared shift leaves them out.
func WithDefaultWeights(s domain.Shift) domain.Shift {
	if s.Weights == (domain.ScoringWeights{}) {
		s.Weights = DefaultWeights()
	}
	return s
}

// Builtin returns a registry preloaded with the four archive shifts.
func Builtin() *Registry {
	registry := NewRegistry()
	registry.Register(RepublicShift())
	registry.Register(EcologicalShift())
	registry.Register(ScienceShift())
	registry.Register(PoliticalShift())
	return registry
}
