package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// mockPolicy implements domain.DesktopPolicy and domain.FrontmostPolicy for testing
type mockPolicy struct {
	appAction    domain.AppBlockAction
	escapeAction domain.AppBlockAction

	taskManager    bool
	terminal       bool
	systemSettings bool
	installers     bool
	signOut        bool

	blockWindow func(process, title, path string) bool
	blockBundle func(bundleID string) bool

	windowCalls int
	bundleCalls int
}

func (m *mockPolicy) AppBlockAction() domain.AppBlockAction    { return m.appAction }
func (m *mockPolicy) EscapeBlockAction() domain.AppBlockAction { return m.escapeAction }
func (m *mockPolicy) ShouldBlockTaskManager() bool             { return m.taskManager }
func (m *mockPolicy) ShouldBlockTerminal() bool                { return m.terminal }
func (m *mockPolicy) ShouldBlockSystemSettings() bool          { return m.systemSettings }
func (m *mockPolicy) ShouldBlockInstallers() bool              { return m.installers }
func (m *mockPolicy) ShouldBlockSignOutButtons() bool          { return m.signOut }

func (m *mockPolicy) ShouldBlockWindow(process, title, path string) bool {
	m.windowCalls++
	if m.blockWindow == nil {
		return false
	}
	return m.blockWindow(process, title, path)
}

func (m *mockPolicy) ShouldBlockBundleID(bundleID string) bool {
	m.bundleCalls++
	if m.blockBundle == nil {
		return false
	}
	return m.blockBundle(bundleID)
}

func allEnabled() *mockPolicy {
	return &mockPolicy{
		appAction:      domain.ActionClose,
		escapeAction:   domain.ActionMinimizeWindow,
		taskManager:    true,
		terminal:       true,
		systemSettings: true,
		installers:     true,
		signOut:        true,
		blockWindow:    func(string, string, string) bool { return true },
		blockBundle:    func(string) bool { return true },
	}
}

func snapshot(process, title string) *domain.WindowSnapshot {
	return &domain.WindowSnapshot{
		Handle:      domain.WindowHandle{ID: 42, PID: 4242},
		ProcessName: process,
		Title:       title,
		Visible:     true,
	}
}

func TestEvaluateDesktop_Rules(t *testing.T) {
	tests := []struct {
		name     string
		policy   *mockPolicy
		snap     *domain.WindowSnapshot
		wantAct  bool
		wantRule domain.Rule
		action   domain.AppBlockAction
		scope    domain.TargetScope
	}{
		{
			name:     "sign out context menu is closed as a window",
			policy:   allEnabled(),
			snap:     snapshot("explorer.exe", ""),
			wantAct:  true,
			wantRule: domain.RuleSignOutMenu,
			action:   domain.ActionClose,
			scope:    domain.ScopeWindow,
		},
		{
			name:    "titled explorer window is whitelisted",
			policy:  allEnabled(),
			snap:    snapshot("explorer.exe", "Downloads"),
			wantAct: false,
		},
		{
			name:    "untitled explorer without sign-out blocking is whitelisted",
			policy:  &mockPolicy{blockWindow: func(string, string, string) bool { return true }},
			snap:    snapshot("Explorer.EXE", ""),
			wantAct: false,
		},
		{
			name:     "task manager gets escape action",
			policy:   allEnabled(),
			snap:     snapshot("Taskmgr.exe", "Task Manager"),
			wantAct:  true,
			wantRule: domain.RuleTaskManager,
			action:   domain.ActionMinimizeWindow,
			scope:    domain.ScopeProcess,
		},
		{
			name:     "terminal",
			policy:   allEnabled(),
			snap:     snapshot("powershell.exe", "Windows PowerShell"),
			wantAct:  true,
			wantRule: domain.RuleTerminal,
			action:   domain.ActionMinimizeWindow,
			scope:    domain.ScopeProcess,
		},
		{
			name:     "system settings",
			policy:   allEnabled(),
			snap:     snapshot("regedit.exe", "Registry Editor"),
			wantAct:  true,
			wantRule: domain.RuleSystemSettings,
			action:   domain.ActionMinimizeWindow,
			scope:    domain.ScopeProcess,
		},
		{
			name:     "installer",
			policy:   allEnabled(),
			snap:     snapshot("MSIEXEC.EXE", "Setup"),
			wantAct:  true,
			wantRule: domain.RuleInstaller,
			action:   domain.ActionMinimizeWindow,
			scope:    domain.ScopeProcess,
		},
		{
			name:     "blocked window gets app action",
			policy:   allEnabled(),
			snap:     snapshot("game.exe", "Game"),
			wantAct:  true,
			wantRule: domain.RuleBlockedWindow,
			action:   domain.ActionClose,
			scope:    domain.ScopeProcess,
		},
		{
			name:    "terminal allowed when toggle off",
			policy:  &mockPolicy{},
			snap:    snapshot("cmd.exe", "Command Prompt"),
			wantAct: false,
		},
		{
			name:    "nothing matches",
			policy:  &mockPolicy{taskManager: true, terminal: true},
			snap:    snapshot("notepad.exe", "Untitled"),
			wantAct: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := EvaluateDesktop(tt.policy, tt.snap)

			assert.Equal(t, tt.wantAct, d.IsAction(), d.String())
			if !tt.wantAct {
				return
			}
			assert.Equal(t, tt.wantRule, d.Rule)
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.scope, d.Target.Scope)
			assert.Equal(t, tt.snap.Handle, d.Target.Handle)
			assert.Equal(t, tt.snap.ProcessName, d.Target.Name)
		})
	}
}

func TestEvaluateDesktop_NoSnapshot(t *testing.T) {
	p := allEnabled()

	assert.False(t, EvaluateDesktop(p, nil).IsAction())
	assert.False(t, EvaluateDesktop(p, snapshot("", "")).IsAction())
	assert.False(t, EvaluateDesktop(p, snapshot("", "Some Title")).IsAction())
	assert.Zero(t, p.windowCalls, "no rule runs without a process name")
}

func TestEvaluateDesktop_OrderIsPrecedence(t *testing.T) {
	p := allEnabled()
	p.blockWindow = func(process, _, _ string) bool { return process == "taskmgr.exe" }

	d := EvaluateDesktop(p, snapshot("taskmgr.exe", "Task Manager"))

	assert.Equal(t, domain.RuleTaskManager, d.Rule)
	assert.Equal(t, domain.ActionMinimizeWindow, d.Action, "escape action, not app action")
	assert.Zero(t, p.windowCalls, "blocked-window rule must not be reached")
}

func TestEvaluateDesktop_WhitelistPrecedence(t *testing.T) {
	for name := range whitelist {
		t.Run(name, func(t *testing.T) {
			p := allEnabled()
			p.signOut = false

			d := EvaluateDesktop(p, snapshot(name, "Some Window"))

			assert.False(t, d.IsAction())
			assert.Zero(t, p.windowCalls)
		})
	}
}

func TestEvaluateDesktop_PassesPathToWindowRule(t *testing.T) {
	var gotPath string
	p := &mockPolicy{
		appAction: domain.ActionMinimizeWindow,
		blockWindow: func(_, _, path string) bool {
			gotPath = path
			return true
		},
	}
	snap := snapshot("game.exe", "Game")
	snap.Path = `C:\Games\game.exe`

	d := EvaluateDesktop(p, snap)

	assert.Equal(t, `C:\Games\game.exe`, gotPath)
	assert.Equal(t, domain.ActionMinimizeWindow, d.Action)
}

func TestEvaluateDesktop_CarriesVisibility(t *testing.T) {
	snap := snapshot("game.exe", "Game")
	snap.Visible = false

	d := EvaluateDesktop(allEnabled(), snap)

	assert.True(t, d.IsAction())
	assert.False(t, d.Target.Visible)
}

// End-to-end scenario: task manager with minimize as escape action.
func TestEvaluateDesktop_TaskManagerScenario(t *testing.T) {
	p := &mockPolicy{
		taskManager:  true,
		appAction:    domain.ActionClose,
		escapeAction: domain.ActionMinimizeWindow,
	}

	d := EvaluateDesktop(p, snapshot("taskmgr.exe", "Task Manager"))

	assert.True(t, d.IsAction())
	assert.Equal(t, domain.ActionMinimizeWindow, d.Action)
}

// End-to-end scenario: the shell host is never blocked by window rules.
func TestEvaluateDesktop_ExplorerScenario(t *testing.T) {
	p := &mockPolicy{blockWindow: func(string, string, string) bool { return true }}

	d := EvaluateDesktop(p, snapshot("explorer.exe", "This PC"))

	assert.False(t, d.IsAction())
}
