// Package usecase contains application business logic.
package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// Executor turns block decisions into controller calls.
type Executor struct {
	windows  domain.WindowController
	procs    domain.ProcessController
	auditLog domain.AuditLog
	logger   *zap.Logger
}

// NewExecutor creates an executor. procs may be nil on platforms without
// named-process decisions.
func NewExecutor(windows domain.WindowController, procs domain.ProcessController, logger *zap.Logger) *Executor {
	return &Executor{
		windows: windows,
		procs:   procs,
		logger:  logger,
	}
}

// WithAuditLog records every applied or failed action to log.
func (e *Executor) WithAuditLog(log domain.AuditLog) *Executor {
	e.auditLog = log
	return e
}

// Apply performs a single decision. It reports whether a side effect took
// place; a hidden target under minimize is a no-op, not an error.
func (e *Executor) Apply(ctx context.Context, d domain.BlockDecision) (bool, error) {
	if !d.IsAction() {
		return false, nil
	}
	t := d.Target

	switch d.Action {
	case domain.ActionMinimizeWindow:
		if t.Scope == domain.ScopeNamed {
			e.logger.Debug("cannot minimize by name, skipping", zap.String("target", t.Name))
			return false, nil
		}
		if !t.Visible {
			return false, nil
		}
		if err := e.windows.Minimize(t.Handle); err != nil {
			return false, fmt.Errorf("minimize %s: %w", t.Name, err)
		}
		return true, nil

	case domain.ActionClose:
		switch t.Scope {
		case domain.ScopeWindow:
			if err := e.windows.CloseWindow(t.Handle); err != nil {
				return false, fmt.Errorf("close window of %s: %w", t.Name, err)
			}
			return true, nil
		case domain.ScopeProcess:
			if err := e.windows.Terminate(t.Handle); err != nil {
				return false, fmt.Errorf("terminate %s (pid %d): %w", t.Name, t.Handle.PID, err)
			}
			return true, nil
		case domain.ScopeNamed:
			if e.procs == nil {
				return false, nil
			}
			return e.procs.CloseByName(t.Name), nil
		}
	}

	return false, fmt.Errorf("unsupported decision %s", d)
}

// Execute applies decisions in order and folds the outcome into res.
// Failures are logged and collected, never returned.
func (e *Executor) Execute(ctx context.Context, res *domain.BlockResult, decisions []domain.BlockDecision) {
	for _, d := range decisions {
		if !d.IsAction() {
			continue
		}
		res.Decisions = append(res.Decisions, d)

		applied, err := e.Apply(ctx, d)
		switch {
		case err != nil:
			e.logger.Warn("block action failed",
				zap.String("rule", string(d.Rule)),
				zap.Stringer("action", d.Action),
				zap.String("target", d.Target.Name),
				zap.Error(err))
			res.Errors = append(res.Errors, err)
		case applied:
			e.logger.Info("block action applied",
				zap.String("rule", string(d.Rule)),
				zap.Stringer("action", d.Action),
				zap.Stringer("scope", d.Target.Scope),
				zap.String("target", d.Target.Name))
			res.Applied++
		default:
			continue
		}

		e.record(ctx, res, d, applied, err)
	}
}

func (e *Executor) record(ctx context.Context, res *domain.BlockResult, d domain.BlockDecision, applied bool, actErr error) {
	if e.auditLog == nil {
		return
	}
	entry := domain.AuditEntry{
		ExecutedAt: time.Now(),
		Variant:    res.Variant,
		Rule:       d.Rule,
		Action:     d.Action,
		Scope:      d.Target.Scope,
		Target:     d.Target.Name,
		Applied:    applied,
	}
	if res.Snapshot != nil {
		entry.Process = res.Snapshot.ProcessName
		entry.Title = res.Snapshot.Title
	}
	if actErr != nil {
		entry.Error = actErr.Error()
	}
	if err := e.auditLog.Record(ctx, entry); err != nil {
		e.logger.Warn("failed to record block action", zap.Error(err))
	}
}

func finish(res *domain.BlockResult) *domain.BlockResult {
	res.DurationMs = time.Since(res.ExecutedAt).Milliseconds()
	return res
}
