// Package policy implements the blocking policy the decision engine consults.
// Rules is the data policy; presets (Steam, Dota 2) contribute ready-made
// window and bundle rules through the Strategy pattern.
package policy

import (
	"github.com/eliteGoblin/focusd/app_block/internal/domain"
	"github.com/eliteGoblin/focusd/app_block/internal/predicate"
)

// WindowRule matches a foreground window. Every non-nil predicate must match.
type WindowRule struct {
	Process *predicate.TextPredicate `yaml:"process,omitempty"`
	Title   *predicate.TextPredicate `yaml:"title,omitempty"`
	Path    *predicate.TextPredicate `yaml:"path,omitempty"`
}

// IsEmpty reports whether the rule has no predicate at all.
func (r WindowRule) IsEmpty() bool {
	return r.Process == nil && r.Title == nil && r.Path == nil
}

// Matches evaluates the rule. An empty rule never matches, and a Path
// predicate never matches an unknown ("") path.
func (r WindowRule) Matches(processName, title, path string) bool {
	if r.IsEmpty() {
		return false
	}
	if r.Process != nil && !r.Process.Test(processName) {
		return false
	}
	if r.Title != nil && !r.Title.Test(title) {
		return false
	}
	if r.Path != nil && (path == "" || !r.Path.Test(path)) {
		return false
	}
	return true
}

// Rules is an immutable blocking policy. It serves both platform variants.
type Rules struct {
	AppAction    domain.AppBlockAction
	EscapeAction domain.AppBlockAction

	BlockTaskManager    bool
	BlockTerminal       bool
	BlockSystemSettings bool
	BlockInstallers     bool
	BlockSignOutButtons bool

	Windows   []WindowRule
	BundleIDs []*predicate.TextPredicate
}

func (r *Rules) AppBlockAction() domain.AppBlockAction    { return r.AppAction }
func (r *Rules) EscapeBlockAction() domain.AppBlockAction { return r.EscapeAction }
func (r *Rules) ShouldBlockTaskManager() bool             { return r.BlockTaskManager }
func (r *Rules) ShouldBlockTerminal() bool                { return r.BlockTerminal }
func (r *Rules) ShouldBlockSystemSettings() bool          { return r.BlockSystemSettings }
func (r *Rules) ShouldBlockInstallers() bool              { return r.BlockInstallers }
func (r *Rules) ShouldBlockSignOutButtons() bool          { return r.BlockSignOutButtons }

// ShouldBlockWindow reports whether any window rule matches.
func (r *Rules) ShouldBlockWindow(processName, title, path string) bool {
	for _, w := range r.Windows {
		if w.Matches(processName, title, path) {
			return true
		}
	}
	return false
}

// ShouldBlockBundleID reports whether any bundle predicate matches.
func (r *Rules) ShouldBlockBundleID(bundleID string) bool {
	for _, p := range r.BundleIDs {
		if p.Test(bundleID) {
			return true
		}
	}
	return false
}

// Ensure Rules implements both capability sets.
var (
	_ domain.DesktopPolicy   = (*Rules)(nil)
	_ domain.FrontmostPolicy = (*Rules)(nil)
)
