// Package daemon implements the polling loop that drives block passes.
package daemon

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// PollerConfig holds poll loop configuration.
type PollerConfig struct {
	PollInterval         time.Duration // How often to run a block pass (default 1s)
	PolicyReloadInterval time.Duration // How often to check the policy file (default 30s)
}

// DefaultPollerConfig returns default poller configuration.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		PollInterval:         time.Second,
		PolicyReloadInterval: 30 * time.Second,
	}
}

// PolicyReloader refreshes the active policy when its source changed.
type PolicyReloader interface {
	Reload(ctx context.Context) (changed bool, err error)
}

// Poller runs a Blocker on a fixed schedule.
// Failed control actions are not retried; the next pass sees the target
// again and acts again.
type Poller struct {
	config   PollerConfig
	blocker  domain.Blocker
	reloader PolicyReloader
	logger   *zap.Logger
}

// NewPoller creates a poller. reloader may be nil to disable policy reloads.
func NewPoller(config PollerConfig, blocker domain.Blocker, reloader PolicyReloader, logger *zap.Logger) *Poller {
	return &Poller{
		config:   config,
		blocker:  blocker,
		reloader: reloader,
		logger:   logger,
	}
}

// Run starts the poll loop.
// This blocks until context is canceled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("block poller started",
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Duration("policy_reload_interval", p.config.PolicyReloadInterval))

	// Run a pass immediately on startup
	p.RunOnce(ctx)

	pollTicker := time.NewTicker(p.config.PollInterval)
	defer pollTicker.Stop()

	var reloadC <-chan time.Time
	if p.reloader != nil && p.config.PolicyReloadInterval > 0 {
		reloadTicker := time.NewTicker(p.config.PolicyReloadInterval)
		defer reloadTicker.Stop()
		reloadC = reloadTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("block poller stopping")
			return ctx.Err()

		case <-pollTicker.C:
			p.RunOnce(ctx)

		case <-reloadC:
			p.reloadPolicy(ctx)
		}
	}
}

// RunOnce performs a single block pass and returns its result.
func (p *Poller) RunOnce(ctx context.Context) *domain.BlockResult {
	res, err := p.blocker.PerformBlock(ctx)
	if err != nil {
		p.logger.Error("block pass failed", zap.Error(err))
		return nil
	}

	if res.Applied > 0 || len(res.Errors) > 0 {
		p.logger.Info("block pass completed",
			zap.String("variant", string(res.Variant)),
			zap.Int("decisions", len(res.Decisions)),
			zap.Int("applied", res.Applied),
			zap.Int("errors", len(res.Errors)),
			zap.Int64("duration_ms", res.DurationMs))
	}
	return res
}

func (p *Poller) reloadPolicy(ctx context.Context) {
	changed, err := p.reloader.Reload(ctx)
	if err != nil {
		// Keep enforcing the previous policy.
		p.logger.Warn("policy reload failed", zap.Error(err))
		return
	}
	if changed {
		p.logger.Info("policy reloaded")
	}
}
