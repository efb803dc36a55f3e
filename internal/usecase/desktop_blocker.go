package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
	"github.com/eliteGoblin/focusd/app_block/internal/engine"
	"github.com/eliteGoblin/focusd/app_block/internal/policy"
)

// DesktopBlocker runs the windowed-desktop procedure against the
// foreground window.
type DesktopBlocker struct {
	inspector domain.WindowInspector
	hosted    domain.HostedProcessLister
	policy    *policy.Holder
	executor  *Executor
	logger    *zap.Logger
}

// NewDesktopBlocker creates a desktop blocker.
func NewDesktopBlocker(
	inspector domain.WindowInspector,
	holder *policy.Holder,
	executor *Executor,
	logger *zap.Logger,
) *DesktopBlocker {
	return &DesktopBlocker{
		inspector: inspector,
		policy:    holder,
		executor:  executor,
		logger:    logger,
	}
}

// WithHostedLister enables resolving store apps hosted by a frame process.
func (b *DesktopBlocker) WithHostedLister(l domain.HostedProcessLister) *DesktopBlocker {
	b.hosted = l
	return b
}

// PerformBlock inspects the foreground window and applies at most one decision.
func (b *DesktopBlocker) PerformBlock(ctx context.Context) (*domain.BlockResult, error) {
	res := &domain.BlockResult{Variant: domain.VariantDesktop, ExecutedAt: time.Now()}

	snap, err := b.inspector.CurrentSnapshot(ctx)
	if err != nil {
		b.logger.Debug("foreground window unavailable", zap.Error(err))
		return finish(res), nil
	}
	if snap == nil {
		return finish(res), nil
	}

	if b.hosted != nil {
		resolved := engine.ResolveHostedProcess(snap.ProcessName, b.hosted.ChildProcessNames(ctx, snap.Handle))
		if resolved != snap.ProcessName {
			b.logger.Debug("resolved hosted app",
				zap.String("host", snap.ProcessName),
				zap.String("app", resolved))
			hosted := *snap
			hosted.ProcessName = resolved
			snap = &hosted
		}
	}
	res.Snapshot = snap

	decision := engine.EvaluateDesktop(b.policy.Load(), snap)
	b.executor.Execute(ctx, res, []domain.BlockDecision{decision})

	return finish(res), nil
}

var _ domain.Blocker = (*DesktopBlocker)(nil)
