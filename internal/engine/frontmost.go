package engine

import "github.com/eliteGoblin/focusd/app_block/internal/domain"

// EvaluateFrontmost runs the single-frontmost-app checks. Each check is
// independent, so the result may hold several decisions; it is empty when
// nothing applies. app may be nil when no application is frontmost.
func EvaluateFrontmost(p domain.FrontmostPolicy, app *domain.WindowSnapshot) []domain.BlockDecision {
	var decisions []domain.BlockDecision

	if app != nil && app.BundleID != "" && p.ShouldBlockBundleID(app.BundleID) {
		target := domain.Target{
			Scope:   domain.ScopeProcess,
			Handle:  app.Handle,
			Name:    app.ProcessName,
			Visible: true,
		}
		decisions = append(decisions, domain.Act(target, p.AppBlockAction(), domain.RuleBlockedBundle))
	}

	if p.ShouldBlockTerminal() {
		decisions = append(decisions, closeNamed(TerminalApp, domain.RuleTerminal))
	}
	if p.ShouldBlockTaskManager() {
		decisions = append(decisions, closeNamed(ActivityMonitorApp, domain.RuleTaskManager))
	}
	if p.ShouldBlockSystemSettings() {
		decisions = append(decisions, closeNamed(SystemSettingsApp, domain.RuleSystemSettings))
	}

	return decisions
}

func closeNamed(name string, rule domain.Rule) domain.BlockDecision {
	return domain.Act(domain.Target{Scope: domain.ScopeNamed, Name: name}, domain.ActionClose, rule)
}
