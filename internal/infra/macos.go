package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// controlTimeout bounds a single OS control command.
const controlTimeout = 5 * time.Second

// frontmostScript prints name, unix id, bundle identifier and bundle path of
// the frontmost application, one per line. Missing fields print empty.
const frontmostScript = `tell application "System Events"
	set p to first application process whose frontmost is true
	set out to (name of p) & linefeed & (unix id of p)
	try
		set out to out & linefeed & (bundle identifier of p)
	on error
		set out to out & linefeed
	end try
	try
		set out to out & linefeed & (POSIX path of (application file of p as alias))
	on error
		set out to out & linefeed
	end try
	return out
end tell`

// MacInspector reads the frontmost application through System Events.
type MacInspector struct {
	runner CommandRunner
}

// NewMacInspector creates an inspector backed by osascript.
func NewMacInspector() *MacInspector {
	return &MacInspector{runner: &RealCommandRunner{}}
}

// NewMacInspectorWithRunner creates an inspector with an injected runner (for testing).
func NewMacInspectorWithRunner(runner CommandRunner) *MacInspector {
	return &MacInspector{runner: runner}
}

// CurrentSnapshot returns the frontmost application. The bundle identifier
// may be empty, in which case BundlePath is set for the resolver.
func (m *MacInspector) CurrentSnapshot(ctx context.Context) (*domain.WindowSnapshot, error) {
	out, err := m.runner.Output(ctx, "osascript", "-e", frontmostScript)
	if err != nil {
		return nil, fmt.Errorf("failed to query frontmost app: %w", err)
	}
	return parseFrontmost(string(out))
}

func parseFrontmost(out string) (*domain.WindowSnapshot, error) {
	lines := strings.Split(strings.TrimRight(out, "\r\n"), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) == "" {
		return nil, nil
	}
	for len(lines) < 4 {
		lines = append(lines, "")
	}

	pid, err := strconv.ParseInt(strings.TrimSpace(lines[1]), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("unexpected unix id %q: %w", lines[1], err)
	}

	bundlePath := strings.TrimSuffix(strings.TrimSpace(lines[3]), "/")
	bundleID := strings.TrimSpace(lines[2])
	if bundleID == "missing value" {
		bundleID = ""
	}

	return &domain.WindowSnapshot{
		Handle:      domain.WindowHandle{PID: int32(pid)},
		ProcessName: strings.TrimSpace(lines[0]),
		Path:        bundlePath,
		Visible:     true,
		BundleID:    bundleID,
		BundlePath:  bundlePath,
	}, nil
}

// MacController terminates or hides applications.
type MacController struct {
	pm     domain.ProcessManager
	runner CommandRunner
}

// NewMacController creates a controller using gopsutil and osascript.
func NewMacController(pm domain.ProcessManager) *MacController {
	return &MacController{pm: pm, runner: &RealCommandRunner{}}
}

// NewMacControllerWithRunner creates a controller with an injected runner (for testing).
func NewMacControllerWithRunner(pm domain.ProcessManager, runner CommandRunner) *MacController {
	return &MacController{pm: pm, runner: runner}
}

// Terminate kills the application process.
func (m *MacController) Terminate(h domain.WindowHandle) error {
	if h.PID <= 0 {
		return fmt.Errorf("no process for handle")
	}
	return m.pm.Kill(int(h.PID))
}

// Minimize hides the application, the frontmost-app equivalent of minimizing.
func (m *MacController) Minimize(h domain.WindowHandle) error {
	if h.PID <= 0 {
		return fmt.Errorf("no process for handle")
	}
	ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
	defer cancel()

	script := fmt.Sprintf(
		`tell application "System Events" to set visible of (first application process whose unix id is %d) to false`,
		h.PID)
	return m.runner.Run(ctx, "osascript", "-e", script)
}

// CloseWindow hides the application; there is no per-window close here.
func (m *MacController) CloseWindow(h domain.WindowHandle) error {
	return m.Minimize(h)
}

// Ensure the macOS adapters implement their domain interfaces.
var (
	_ domain.WindowInspector  = (*MacInspector)(nil)
	_ domain.WindowController = (*MacController)(nil)
)
