package policy

import "sync/atomic"

// Holder publishes the active Rules. The host swaps a new immutable value in
// wholesale; each evaluation pass loads one value and uses it throughout.
type Holder struct {
	rules atomic.Pointer[Rules]
}

// NewHolder creates a holder with an initial policy.
func NewHolder(initial *Rules) *Holder {
	h := &Holder{}
	h.Store(initial)
	return h
}

// Load returns the active policy. Never nil once constructed via NewHolder.
func (h *Holder) Load() *Rules {
	if r := h.rules.Load(); r != nil {
		return r
	}
	return &Rules{}
}

// Store replaces the active policy. A nil value is ignored.
func (h *Holder) Store(r *Rules) {
	if r == nil {
		return
	}
	h.rules.Store(r)
}
