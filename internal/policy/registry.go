package policy

import (
	"fmt"
	"sort"
)

// Registry holds all known app presets.
type Registry struct {
	presets map[string]AppPreset
}

// NewRegistry creates a registry with all default presets.
func NewRegistry() *Registry {
	return NewRegistryWithPresets(
		NewSteamPreset(),
		NewDota2Preset(),
	)
}

// NewRegistryWithPresets creates a registry with custom presets (for testing).
func NewRegistryWithPresets(presets ...AppPreset) *Registry {
	r := &Registry{
		presets: make(map[string]AppPreset),
	}
	for _, p := range presets {
		r.Register(p)
	}
	return r
}

// Register adds a preset to the registry, replacing any preset with the same ID.
func (r *Registry) Register(p AppPreset) {
	r.presets[p.ID()] = p
}

// Get returns a preset by ID.
func (r *Registry) Get(id string) (AppPreset, bool) {
	p, ok := r.presets[id]
	return p, ok
}

// MustGet returns a preset by ID or an error naming the known IDs.
func (r *Registry) MustGet(id string) (AppPreset, error) {
	p, ok := r.presets[id]
	if !ok {
		return nil, fmt.Errorf("preset not found: %s (known: %v)", id, r.List())
	}
	return p, nil
}

// GetAll returns all registered presets ordered by ID.
func (r *Registry) GetAll() []AppPreset {
	result := make([]AppPreset, 0, len(r.presets))
	for _, id := range r.List() {
		result = append(result, r.presets[id])
	}
	return result
}

// List returns all preset IDs, sorted.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.presets))
	for id := range r.presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
