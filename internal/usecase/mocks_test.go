package usecase

import (
	"context"
	"errors"
	"iter"
	"slices"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
	"github.com/eliteGoblin/focusd/app_block/internal/policy"
	"github.com/eliteGoblin/focusd/app_block/internal/predicate"
)

// mockInspector implements domain.WindowInspector for testing
type mockInspector struct {
	snap  *domain.WindowSnapshot
	err   error
	calls int
}

func (m *mockInspector) CurrentSnapshot(ctx context.Context) (*domain.WindowSnapshot, error) {
	m.calls++
	return m.snap, m.err
}

// mockController implements domain.WindowController and
// domain.ProcessController, recording every call.
type mockController struct {
	terminated []domain.WindowHandle
	minimized  []domain.WindowHandle
	closed     []domain.WindowHandle
	named      []string
	running    map[string]bool
	err        error
}

func newMockController() *mockController {
	return &mockController{running: make(map[string]bool)}
}

func (m *mockController) Terminate(h domain.WindowHandle) error {
	if m.err != nil {
		return m.err
	}
	m.terminated = append(m.terminated, h)
	return nil
}

func (m *mockController) Minimize(h domain.WindowHandle) error {
	if m.err != nil {
		return m.err
	}
	m.minimized = append(m.minimized, h)
	return nil
}

func (m *mockController) CloseWindow(h domain.WindowHandle) error {
	if m.err != nil {
		return m.err
	}
	m.closed = append(m.closed, h)
	return nil
}

func (m *mockController) IsProcessRunning(name string) bool {
	return m.running[name]
}

func (m *mockController) CloseByName(name string) bool {
	m.named = append(m.named, name)
	if !m.running[name] {
		return false
	}
	delete(m.running, name)
	return true
}

func (m *mockController) totalCalls() int {
	return len(m.terminated) + len(m.minimized) + len(m.closed) + len(m.named)
}

// mockBundleResolver implements domain.BundleResolver for testing
type mockBundleResolver struct {
	ids   map[string]string
	calls []string
}

func (m *mockBundleResolver) ResolveBundleID(appPath string) (string, error) {
	m.calls = append(m.calls, appPath)
	if id, ok := m.ids[appPath]; ok {
		return id, nil
	}
	return "", domain.ErrBundleIDNotFound
}

// mockHostedLister implements domain.HostedProcessLister for testing
type mockHostedLister struct {
	children []string
}

func (m *mockHostedLister) ChildProcessNames(ctx context.Context, h domain.WindowHandle) iter.Seq[string] {
	return slices.Values(m.children)
}

// mockAuditLog implements domain.AuditLog for testing
type mockAuditLog struct {
	entries   []domain.AuditEntry
	recordErr error
}

func (m *mockAuditLog) Record(ctx context.Context, e domain.AuditEntry) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockAuditLog) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return m.entries, nil
}

func (m *mockAuditLog) Close() error { return nil }

var errControl = errors.New("access denied")

func holderFor(r *policy.Rules) *policy.Holder {
	return policy.NewHolder(r)
}

func steamRules(action domain.AppBlockAction) *policy.Rules {
	return &policy.Rules{
		AppAction:    action,
		EscapeAction: domain.ActionMinimizeWindow,
		Windows: []policy.WindowRule{
			{Process: predicate.Contains("steam").And(predicate.Not(predicate.Exact("steamwebhelper.exe")))},
		},
	}
}

var (
	_ domain.WindowInspector     = (*mockInspector)(nil)
	_ domain.WindowController    = (*mockController)(nil)
	_ domain.ProcessController   = (*mockController)(nil)
	_ domain.BundleResolver      = (*mockBundleResolver)(nil)
	_ domain.HostedProcessLister = (*mockHostedLister)(nil)
	_ domain.AuditLog            = (*mockAuditLog)(nil)
)
