package policy

import "github.com/eliteGoblin/focusd/app_block/internal/predicate"

// SteamPreset implements AppPreset for blocking the Steam client.
type SteamPreset struct{}

// NewSteamPreset creates a new Steam preset.
func NewSteamPreset() *SteamPreset {
	return &SteamPreset{}
}

func (p *SteamPreset) ID() string {
	return "steam"
}

func (p *SteamPreset) Name() string {
	return "Steam"
}

// WindowRules matches the client and its web helper on Windows and Linux.
func (p *SteamPreset) WindowRules() []WindowRule {
	return []WindowRule{
		{Process: predicate.AnyOf(
			predicate.Exact("steam.exe"),
			predicate.Exact("steam"),
			predicate.StartsWith("steamwebhelper"),
			predicate.Exact("steamservice.exe"),
		)},
		// Installed games live under steamapps regardless of their exe name
		{Path: predicate.Contains("steamapps")},
	}
}

// BundleIDs returns the macOS bundle identifiers of Steam.
func (p *SteamPreset) BundleIDs() []*predicate.TextPredicate {
	return []*predicate.TextPredicate{
		predicate.Exact("com.valvesoftware.steam"),
		predicate.StartsWith("com.valvesoftware.steam."),
	}
}

// Ensure SteamPreset implements AppPreset.
var _ AppPreset = (*SteamPreset)(nil)
