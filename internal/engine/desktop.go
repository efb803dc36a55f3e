// Package engine turns a policy and a foreground observation into block decisions.
//
// There is one procedure per platform family. The windowed desktop procedure
// walks an ordered rule list and stops at the first match; the order encodes
// precedence and must not change. The frontmost-app procedure runs
// independent checks that may all fire in one pass.
package engine

import (
	"strings"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// EvaluateDesktop decides what to do with the foreground window on a
// windowed desktop. A nil snapshot or one without a process name yields
// no action.
func EvaluateDesktop(p domain.DesktopPolicy, snap *domain.WindowSnapshot) domain.BlockDecision {
	if snap == nil || snap.ProcessName == "" {
		return domain.NoActionDecision()
	}
	name := snap.ProcessName

	process := domain.Target{
		Scope:   domain.ScopeProcess,
		Handle:  snap.Handle,
		Name:    name,
		Visible: snap.Visible,
	}
	escape := p.EscapeBlockAction()

	switch {
	case p.ShouldBlockSignOutButtons() && isShellContextMenu(snap):
		window := process
		window.Scope = domain.ScopeWindow
		return domain.Act(window, domain.ActionClose, domain.RuleSignOutMenu)

	// The shell uses these internally; nothing below may touch them.
	case whitelist.has(name):
		return domain.NoActionDecision()

	case p.ShouldBlockTaskManager() && strings.EqualFold(name, taskManager):
		return domain.Act(process, escape, domain.RuleTaskManager)

	case p.ShouldBlockTerminal() && terminals.has(name):
		return domain.Act(process, escape, domain.RuleTerminal)

	case p.ShouldBlockSystemSettings() && systemSettings.has(name):
		return domain.Act(process, escape, domain.RuleSystemSettings)

	case p.ShouldBlockInstallers() && strings.EqualFold(name, installer):
		return domain.Act(process, escape, domain.RuleInstaller)

	case p.ShouldBlockWindow(name, snap.Title, snap.Path):
		return domain.Act(process, p.AppBlockAction(), domain.RuleBlockedWindow)
	}

	return domain.NoActionDecision()
}

// isShellContextMenu spots the untitled shell popup that hosts sign-out and
// power buttons.
func isShellContextMenu(snap *domain.WindowSnapshot) bool {
	return strings.EqualFold(snap.ProcessName, shellHost) && snap.Title == ""
}
