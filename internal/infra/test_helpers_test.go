package infra

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// mockProcessManager is a test double for domain.ProcessManager
type mockProcessManager struct {
	procs       []mockProcess
	runningPIDs map[int]bool
	killedPIDs  []int
	killErr     error
	selfPID     int
}

func newMockProcessManager() *mockProcessManager {
	return &mockProcessManager{
		runningPIDs: make(map[int]bool),
		selfPID:     os.Getpid(),
	}
}

type mockProcess struct {
	name string
	pid  int
}

func (m *mockProcessManager) FindByName(pattern string) ([]int, error) {
	return m.find(func(name string) bool {
		return strings.Contains(strings.ToLower(name), strings.ToLower(pattern))
	}), nil
}

func (m *mockProcessManager) FindExact(name string) ([]int, error) {
	return m.find(func(candidate string) bool {
		return strings.EqualFold(candidate, name)
	}), nil
}

func (m *mockProcessManager) find(match func(string) bool) []int {
	var pids []int
	for _, p := range m.procs {
		if m.runningPIDs[p.pid] && match(p.name) {
			pids = append(pids, p.pid)
		}
	}
	return pids
}

func (m *mockProcessManager) Kill(pid int) error {
	if m.killErr != nil {
		return m.killErr
	}
	m.killedPIDs = append(m.killedPIDs, pid)
	delete(m.runningPIDs, pid)
	return nil
}

func (m *mockProcessManager) IsRunning(pid int) bool {
	return m.runningPIDs[pid]
}

func (m *mockProcessManager) GetCurrentPID() int {
	return m.selfPID
}

func (m *mockProcessManager) addProcess(name string, pid int) {
	m.procs = append(m.procs, mockProcess{name: name, pid: pid})
	m.runningPIDs[pid] = true
}

// mockCommandRunner records invocations and replays canned output keyed by
// the command line.
type mockCommandRunner struct {
	mu      sync.Mutex
	calls   []string
	outputs map[string]string
	errs    map[string]error
}

func newMockCommandRunner() *mockCommandRunner {
	return &mockCommandRunner{
		outputs: make(map[string]string),
		errs:    make(map[string]error),
	}
}

func commandLine(name string, args ...string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

func (m *mockCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	_, err := m.Output(ctx, name, args...)
	return err
}

func (m *mockCommandRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line := commandLine(name, args...)
	m.calls = append(m.calls, line)
	if err, ok := m.errs[line]; ok {
		return nil, err
	}
	if out, ok := m.outputs[line]; ok {
		return []byte(out), nil
	}
	return nil, nil
}

func (m *mockCommandRunner) on(out string, name string, args ...string) {
	m.outputs[commandLine(name, args...)] = out
}

func (m *mockCommandRunner) fail(err error, name string, args ...string) {
	m.errs[commandLine(name, args...)] = err
}

// stubProcessInfo answers NameOf/ExeOf from fixed maps.
type stubProcessInfo struct {
	names map[int32]string
	exes  map[int32]string
}

func (s stubProcessInfo) NameOf(pid int32) (string, error) {
	if n, ok := s.names[pid]; ok {
		return n, nil
	}
	return "", fmt.Errorf("process %d not found", pid)
}

func (s stubProcessInfo) ExeOf(pid int32) (string, error) {
	if e, ok := s.exes[pid]; ok {
		return e, nil
	}
	return "", fmt.Errorf("process %d not found", pid)
}

var (
	_ domain.ProcessManager = (*mockProcessManager)(nil)
	_ CommandRunner         = (*mockCommandRunner)(nil)
	_ ProcessInfo           = stubProcessInfo{}
)
