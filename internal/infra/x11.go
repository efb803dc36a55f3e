package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// X11Inspector reads the active window of an X11 desktop through xprop.
type X11Inspector struct {
	runner CommandRunner
	procs  ProcessInfo
}

// NewX11Inspector creates an inspector backed by xprop and gopsutil.
func NewX11Inspector(procs ProcessInfo) *X11Inspector {
	return &X11Inspector{runner: &RealCommandRunner{}, procs: procs}
}

// NewX11InspectorWithRunner creates an inspector with an injected runner (for testing).
func NewX11InspectorWithRunner(runner CommandRunner, procs ProcessInfo) *X11Inspector {
	return &X11Inspector{runner: runner, procs: procs}
}

// CurrentSnapshot returns the active window, or nil when none is focused.
func (x *X11Inspector) CurrentSnapshot(ctx context.Context) (*domain.WindowSnapshot, error) {
	out, err := x.runner.Output(ctx, "xprop", "-root", "_NET_ACTIVE_WINDOW")
	if err != nil {
		return nil, fmt.Errorf("xprop failed (no X11?): %w", err)
	}
	id, err := parseActiveWindow(string(out))
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}

	out, err = x.runner.Output(ctx, "xprop", "-id", formatWindowID(id), "_NET_WM_PID", "WM_NAME", "_NET_WM_STATE")
	if err != nil {
		return nil, fmt.Errorf("failed to query window %s: %w", formatWindowID(id), err)
	}
	props := parseWindowProps(string(out))

	snap := &domain.WindowSnapshot{
		Handle:  domain.WindowHandle{ID: id, PID: props.pid},
		Title:   props.title,
		Visible: !props.hidden,
	}
	if props.pid > 0 && x.procs != nil {
		// Unresolvable names leave ProcessName empty, which the engine skips.
		snap.ProcessName, _ = x.procs.NameOf(props.pid)
		snap.Path, _ = x.procs.ExeOf(props.pid)
	}
	return snap, nil
}

// parseActiveWindow reads "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3a00007".
func parseActiveWindow(out string) (uint64, error) {
	fields := strings.Fields(out)
	if len(fields) < 5 {
		return 0, fmt.Errorf("unexpected xprop output %q", strings.TrimSpace(out))
	}
	raw := strings.TrimSuffix(fields[len(fields)-1], ",")
	id, err := strconv.ParseUint(strings.TrimPrefix(raw, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected window id %q: %w", raw, err)
	}
	return id, nil
}

type windowProps struct {
	pid    int32
	title  string
	hidden bool
}

func parseWindowProps(out string) windowProps {
	var props windowProps
	for _, line := range strings.Split(out, "\n") {
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		switch {
		case strings.HasPrefix(name, "_NET_WM_PID"):
			if pid, err := strconv.ParseInt(value, 10, 32); err == nil {
				props.pid = int32(pid)
			}
		case strings.HasPrefix(name, "WM_NAME"):
			if unq, err := strconv.Unquote(value); err == nil {
				props.title = unq
			} else {
				props.title = strings.Trim(value, `"`)
			}
		case strings.HasPrefix(name, "_NET_WM_STATE"):
			props.hidden = strings.Contains(value, "_NET_WM_STATE_HIDDEN")
		}
	}
	return props
}

func formatWindowID(id uint64) string {
	return "0x" + strconv.FormatUint(id, 16)
}

// X11Controller acts on X11 windows with xdotool and wmctrl.
type X11Controller struct {
	pm     domain.ProcessManager
	runner CommandRunner
}

// NewX11Controller creates a controller using gopsutil, xdotool and wmctrl.
func NewX11Controller(pm domain.ProcessManager) *X11Controller {
	return &X11Controller{pm: pm, runner: &RealCommandRunner{}}
}

// NewX11ControllerWithRunner creates a controller with an injected runner (for testing).
func NewX11ControllerWithRunner(pm domain.ProcessManager, runner CommandRunner) *X11Controller {
	return &X11Controller{pm: pm, runner: runner}
}

// Terminate kills the process owning the window.
func (x *X11Controller) Terminate(h domain.WindowHandle) error {
	if h.PID <= 0 {
		return fmt.Errorf("window %s has no known process", formatWindowID(h.ID))
	}
	return x.pm.Kill(int(h.PID))
}

// Minimize iconifies the window.
func (x *X11Controller) Minimize(h domain.WindowHandle) error {
	ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
	defer cancel()
	return x.runner.Run(ctx, "xdotool", "windowminimize", strconv.FormatUint(h.ID, 10))
}

// CloseWindow asks the window manager to close the window gracefully.
func (x *X11Controller) CloseWindow(h domain.WindowHandle) error {
	ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
	defer cancel()
	return x.runner.Run(ctx, "wmctrl", "-i", "-c", formatWindowID(h.ID))
}

// Ensure the X11 adapters implement their domain interfaces.
var (
	_ domain.WindowInspector  = (*X11Inspector)(nil)
	_ domain.WindowController = (*X11Controller)(nil)
)
