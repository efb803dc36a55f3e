// Package infra implements infrastructure concerns: process control,
// foreground window inspection, bundle metadata and the audit log.
package infra

import (
	"os"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager and
// domain.ProcessController using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() *ProcessManagerImpl {
	return &ProcessManagerImpl{}
}

// FindByName returns PIDs of processes matching the pattern (case-insensitive).
// A process matches when its name equals or contains the pattern.
func (pm *ProcessManagerImpl) FindByName(pattern string) ([]int, error) {
	patternLower := strings.ToLower(pattern)
	return pm.find(func(name string) bool {
		return strings.EqualFold(name, pattern) || strings.Contains(strings.ToLower(name), patternLower)
	})
}

// FindExact returns PIDs of processes named exactly name, ignoring case.
func (pm *ProcessManagerImpl) FindExact(name string) ([]int, error) {
	return pm.find(func(candidate string) bool {
		return strings.EqualFold(candidate, name)
	})
}

func (pm *ProcessManagerImpl) find(match func(name string) bool) ([]int, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	var found []int
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		if match(name) {
			found = append(found, int(p.Pid))
		}
	}

	return found, nil
}

// Kill terminates a process by PID using SIGKILL.
func (pm *ProcessManagerImpl) Kill(pid int) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	return p.Kill()
}

// IsRunning checks if a PID exists and is running.
func (pm *ProcessManagerImpl) IsRunning(pid int) bool {
	// On Unix, FindProcess always succeeds
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Send signal 0 to check if process exists
	err = proc.Signal(syscall.Signal(0))
	return err == nil
}

// GetCurrentPID returns the current process PID.
func (pm *ProcessManagerImpl) GetCurrentPID() int {
	return os.Getpid()
}

// IsProcessRunning reports whether a process named exactly name is running.
func (pm *ProcessManagerImpl) IsProcessRunning(name string) bool {
	pids, err := pm.FindExact(name)
	return err == nil && len(pids) > 0
}

// CloseByName kills every process named exactly name except ourselves.
// Returns false when nothing by that name was running.
func (pm *ProcessManagerImpl) CloseByName(name string) bool {
	return closeByName(pm, name)
}

// NameOf returns the executable name of pid.
func (pm *ProcessManagerImpl) NameOf(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Name()
}

// ExeOf returns the executable path of pid.
func (pm *ProcessManagerImpl) ExeOf(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Exe()
}

// exactProcessFinder is the part of a process manager closeByName needs.
type exactProcessFinder interface {
	FindExact(name string) ([]int, error)
	Kill(pid int) error
	GetCurrentPID() int
}

// closeByName matches whole names only, so helpers such as
// "terminal-notifier" survive a close of "Terminal". Kill failures are
// absorbed and show up as the process still running on the next poll.
func closeByName(pm exactProcessFinder, name string) bool {
	pids, err := pm.FindExact(name)
	if err != nil || len(pids) == 0 {
		return false
	}
	self := pm.GetCurrentPID()
	for _, pid := range pids {
		if pid == self {
			continue
		}
		_ = pm.Kill(pid)
	}
	return true
}

// ProcessInfo resolves process metadata for inspectors.
type ProcessInfo interface {
	NameOf(pid int32) (string, error)
	ExeOf(pid int32) (string, error)
}

// Ensure ProcessManagerImpl implements the process interfaces.
var (
	_ domain.ProcessManager    = (*ProcessManagerImpl)(nil)
	_ domain.ProcessController = (*ProcessManagerImpl)(nil)
	_ ProcessInfo              = (*ProcessManagerImpl)(nil)
	_ exactProcessFinder       = (*ProcessManagerImpl)(nil)
)
