package policy

import "github.com/eliteGoblin/focusd/app_block/internal/predicate"

// AppPreset defines the strategy interface for a ready-made app block list.
// Implementations provide app-specific window rules and bundle identifiers.
type AppPreset interface {
	// ID returns unique identifier (e.g., "steam", "dota2").
	ID() string

	// Name returns human-readable name for display.
	Name() string

	// WindowRules returns rules for the desktop variant.
	WindowRules() []WindowRule

	// BundleIDs returns bundle identifier predicates for the frontmost variant.
	BundleIDs() []*predicate.TextPredicate
}
