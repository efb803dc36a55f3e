package fixtures

import (
	"context"
	"sync"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// StaticInspector always reports the same snapshot.
type StaticInspector struct {
	mu   sync.Mutex
	snap *domain.WindowSnapshot
	err  error
}

// NewStaticInspector creates an inspector reporting snap.
func NewStaticInspector(snap *domain.WindowSnapshot) *StaticInspector {
	return &StaticInspector{snap: snap}
}

// Set replaces the reported snapshot and error.
func (s *StaticInspector) Set(snap *domain.WindowSnapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap, s.err = snap, err
}

func (s *StaticInspector) CurrentSnapshot(ctx context.Context) (*domain.WindowSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil, s.err
	}
	snap := *s.snap
	return &snap, s.err
}

// Call is one recorded controller invocation.
type Call struct {
	Op     string // terminate, minimize, close_window, close_by_name
	Handle domain.WindowHandle
	Name   string
}

// RecordingController records controller calls and simulates running
// processes for name lookups.
type RecordingController struct {
	mu      sync.Mutex
	calls   []Call
	running map[string]bool
}

// NewRecordingController creates a controller with the named processes running.
func NewRecordingController(running ...string) *RecordingController {
	c := &RecordingController{running: make(map[string]bool)}
	for _, name := range running {
		c.running[name] = true
	}
	return c
}

func (c *RecordingController) record(call Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

// Calls returns a copy of the recorded calls.
func (c *RecordingController) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// CallsOf returns the recorded calls with the given op.
func (c *RecordingController) CallsOf(op string) []Call {
	var out []Call
	for _, call := range c.Calls() {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

func (c *RecordingController) Terminate(h domain.WindowHandle) error {
	c.record(Call{Op: "terminate", Handle: h})
	return nil
}

func (c *RecordingController) Minimize(h domain.WindowHandle) error {
	c.record(Call{Op: "minimize", Handle: h})
	return nil
}

func (c *RecordingController) CloseWindow(h domain.WindowHandle) error {
	c.record(Call{Op: "close_window", Handle: h})
	return nil
}

func (c *RecordingController) IsProcessRunning(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running[name]
}

func (c *RecordingController) CloseByName(name string) bool {
	c.record(Call{Op: "close_by_name", Name: name})
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running[name] {
		return false
	}
	delete(c.running, name)
	return true
}

var (
	_ domain.WindowInspector   = (*StaticInspector)(nil)
	_ domain.WindowController  = (*RecordingController)(nil)
	_ domain.ProcessController = (*RecordingController)(nil)
)
