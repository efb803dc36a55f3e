package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
	"github.com/eliteGoblin/focusd/app_block/internal/engine"
	"github.com/eliteGoblin/focusd/app_block/internal/policy"
)

// FrontmostBlocker runs the frontmost-app procedure.
type FrontmostBlocker struct {
	inspector domain.WindowInspector
	bundles   domain.BundleResolver
	policy    *policy.Holder
	executor  *Executor
	logger    *zap.Logger
}

// NewFrontmostBlocker creates a frontmost-app blocker. bundles may be nil,
// in which case apps without an inspector-supplied bundle id skip the
// bundle check.
func NewFrontmostBlocker(
	inspector domain.WindowInspector,
	bundles domain.BundleResolver,
	holder *policy.Holder,
	executor *Executor,
	logger *zap.Logger,
) *FrontmostBlocker {
	return &FrontmostBlocker{
		inspector: inspector,
		bundles:   bundles,
		policy:    holder,
		executor:  executor,
		logger:    logger,
	}
}

// PerformBlock evaluates the frontmost app and the named-app toggles and
// applies every resulting decision.
func (b *FrontmostBlocker) PerformBlock(ctx context.Context) (*domain.BlockResult, error) {
	res := &domain.BlockResult{Variant: domain.VariantFrontmost, ExecutedAt: time.Now()}

	app, err := b.inspector.CurrentSnapshot(ctx)
	if err != nil {
		// The named-app checks do not need the frontmost app.
		b.logger.Debug("frontmost app unavailable", zap.Error(err))
		app = nil
	}

	if app != nil && app.BundleID == "" && app.BundlePath != "" && b.bundles != nil {
		id, err := b.bundles.ResolveBundleID(app.BundlePath)
		if err != nil {
			b.logger.Debug("bundle id unresolved",
				zap.String("app", app.ProcessName),
				zap.String("path", app.BundlePath),
				zap.Error(err))
		} else {
			resolved := *app
			resolved.BundleID = id
			app = &resolved
		}
	}
	res.Snapshot = app

	decisions := engine.EvaluateFrontmost(b.policy.Load(), app)
	b.executor.Execute(ctx, res, decisions)

	return finish(res), nil
}

var _ domain.Blocker = (*FrontmostBlocker)(nil)
