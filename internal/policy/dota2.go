package policy

import "github.com/eliteGoblin/focusd/app_block/internal/predicate"

// Dota2Preset implements AppPreset for blocking Dota 2.
type Dota2Preset struct{}

// NewDota2Preset creates a new Dota 2 preset.
func NewDota2Preset() *Dota2Preset {
	return &Dota2Preset{}
}

func (p *Dota2Preset) ID() string {
	return "dota2"
}

func (p *Dota2Preset) Name() string {
	return "Dota 2"
}

// WindowRules returns Dota 2 process and window matchers.
func (p *Dota2Preset) WindowRules() []WindowRule {
	return []WindowRule{
		{Process: predicate.Or(
			predicate.StartsWith("dota2"),
			predicate.StartsWith("dota_"),
		)},
		{Title: predicate.Exact("Dota 2")},
		// Dota 2 is installed via Steam, so its folder sits under steamapps
		{Path: predicate.Contains("dota 2 beta")},
	}
}

// BundleIDs returns the macOS bundle identifiers of Dota 2.
func (p *Dota2Preset) BundleIDs() []*predicate.TextPredicate {
	return []*predicate.TextPredicate{
		predicate.Exact("com.valvesoftware.dota2"),
	}
}

// Ensure Dota2Preset implements AppPreset.
var _ AppPreset = (*Dota2Preset)(nil)
