package infra

import (
	"context"
	"iter"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// ProcessTreeLister lists the processes a frame host has spawned. Names are
// produced lazily, one child lookup per iteration step.
//
// It approximates store-app resolution with child processes; a Windows
// adapter would enumerate the owners of the host's child windows instead.
// Under X11 no window is owned by a frame host, so the engine never asks.
type ProcessTreeLister struct{}

// NewProcessTreeLister creates a lister backed by gopsutil.
func NewProcessTreeLister() *ProcessTreeLister {
	return &ProcessTreeLister{}
}

func (l *ProcessTreeLister) ChildProcessNames(ctx context.Context, h domain.WindowHandle) iter.Seq[string] {
	return func(yield func(string) bool) {
		if h.PID <= 0 {
			return
		}
		parent, err := process.NewProcessWithContext(ctx, h.PID)
		if err != nil {
			return
		}
		children, err := parent.ChildrenWithContext(ctx)
		if err != nil {
			return
		}
		for _, child := range children {
			name, err := child.NameWithContext(ctx)
			if err != nil {
				continue // exited
			}
			if !yield(name) {
				return
			}
		}
	}
}

var _ domain.HostedProcessLister = (*ProcessTreeLister)(nil)
