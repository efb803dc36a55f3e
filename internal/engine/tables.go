package engine

import "strings"

// Process names of the windowed desktop shell. Compared case-insensitively.
const (
	shellHost     = "explorer.exe"
	taskManager   = "taskmgr.exe"
	installer     = "msiexec.exe"
	storeAppFrame = "applicationframehost.exe"
)

// whitelist holds shell-internal processes that no rule may act on.
var whitelist = nameSet(
	"lockapp.exe",
	"shellhostexperience.exe",
	"mmtoastnotifier.exe",
	shellHost,
	"searchhost.exe",
	"windowsinternal.composableshell.experiences.textinput.inputapp.exe",
)

var terminals = nameSet(
	"windowsterminal.exe",
	"powershell.exe",
	"cmd.exe",
	"conhost.exe",
)

var systemSettings = nameSet(
	"systemsettings.exe",
	"regedit.exe",
	"control.exe",
	"mmc.exe",
	"startmenuexperiencehost.exe",
	"csrss.exe",
)

// Applications closed by name on the frontmost-app platform.
const (
	TerminalApp        = "Terminal"
	ActivityMonitorApp = "Activity Monitor"
	SystemSettingsApp  = "System Settings"
)

type set map[string]struct{}

func nameSet(names ...string) set {
	s := make(set, len(names))
	for _, n := range names {
		s[strings.ToLower(n)] = struct{}{}
	}
	return s
}

func (s set) has(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}
