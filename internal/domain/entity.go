// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBundleIDNotFound is returned when an application bundle has no readable identifier.
var ErrBundleIDNotFound = errors.New("bundle identifier not found")

// AppBlockAction is the effect applied to a matched target.
type AppBlockAction int

const (
	// ActionClose terminates the process (or closes the window for window-scoped targets).
	ActionClose AppBlockAction = iota
	// ActionMinimizeWindow minimizes (or hides) the target if it is visible.
	ActionMinimizeWindow
)

func (a AppBlockAction) String() string {
	switch a {
	case ActionClose:
		return "close"
	case ActionMinimizeWindow:
		return "minimize_window"
	default:
		return "unknown"
	}
}

// ParseAppBlockAction parses the text form used in config and policy files.
func ParseAppBlockAction(s string) (AppBlockAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "close":
		return ActionClose, nil
	case "minimize_window", "minimize", "hide":
		return ActionMinimizeWindow, nil
	default:
		return ActionClose, fmt.Errorf("unknown block action %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a AppBlockAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AppBlockAction) UnmarshalText(text []byte) error {
	parsed, err := ParseAppBlockAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// WindowHandle identifies a window and its owning process.
// Produced by inspectors and passed through to controllers unchanged.
type WindowHandle struct {
	ID  uint64
	PID int32
}

// WindowSnapshot is a point-in-time observation of the foreground target.
type WindowSnapshot struct {
	Handle      WindowHandle
	ProcessName string
	Title       string
	Path        string // executable path, "" when unknown
	Visible     bool
	BundleID    string // frontmost-app platforms only
	BundlePath  string // .app path used to resolve BundleID when the inspector could not
}

// TargetScope says what a decision acts on.
type TargetScope int

const (
	// ScopeProcess acts on the process owning the handle.
	ScopeProcess TargetScope = iota
	// ScopeWindow acts on the window itself.
	ScopeWindow
	// ScopeNamed acts on any running process with the given name.
	ScopeNamed
)

func (s TargetScope) String() string {
	switch s {
	case ScopeProcess:
		return "process"
	case ScopeWindow:
		return "window"
	case ScopeNamed:
		return "named"
	default:
		return "unknown"
	}
}

// Target is the subject of a block decision.
type Target struct {
	Scope   TargetScope
	Handle  WindowHandle
	Name    string // process name; the lookup key for ScopeNamed
	Visible bool
}

// Rule names the check that produced a decision.
type Rule string

const (
	RuleNone           Rule = ""
	RuleSignOutMenu    Rule = "sign_out_menu"
	RuleTaskManager    Rule = "task_manager"
	RuleTerminal       Rule = "terminal"
	RuleSystemSettings Rule = "system_settings"
	RuleInstaller      Rule = "installer"
	RuleBlockedWindow  Rule = "blocked_window"
	RuleBlockedBundle  Rule = "blocked_bundle"
)

// BlockDecision is the engine output: no action, or an action against a target.
type BlockDecision struct {
	act    bool
	Target Target
	Action AppBlockAction
	Rule   Rule
}

// NoActionDecision returns a decision that leaves the target alone.
func NoActionDecision() BlockDecision { return BlockDecision{} }

// Act returns a decision to apply action to target.
func Act(target Target, action AppBlockAction, rule Rule) BlockDecision {
	return BlockDecision{act: true, Target: target, Action: action, Rule: rule}
}

// IsAction reports whether the decision requests a side effect.
func (d BlockDecision) IsAction() bool { return d.act }

func (d BlockDecision) String() string {
	if !d.act {
		return "no_action"
	}
	return fmt.Sprintf("%s %s %q (%s)", d.Action, d.Target.Scope, d.Target.Name, d.Rule)
}

// Variant selects the decision procedure for the host platform.
type Variant string

const (
	// VariantDesktop is the windowed desktop procedure (ordered rules).
	VariantDesktop Variant = "desktop"
	// VariantFrontmost is the single-frontmost-app procedure (independent checks).
	VariantFrontmost Variant = "frontmost"
)

// BlockResult captures what happened during a single block pass.
type BlockResult struct {
	Variant    Variant
	Snapshot   *WindowSnapshot
	Decisions  []BlockDecision
	Applied    int
	Errors     []error
	ExecutedAt time.Time
	DurationMs int64
}

// AuditEntry records one applied (or attempted) block action.
type AuditEntry struct {
	ID         int64
	ExecutedAt time.Time
	Variant    Variant
	Rule       Rule
	Action     AppBlockAction
	Scope      TargetScope
	Target     string
	Process    string
	Title      string
	Applied    bool
	Error      string
}
