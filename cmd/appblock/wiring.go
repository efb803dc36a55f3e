package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
	"github.com/eliteGoblin/focusd/app_block/internal/infra"
	"github.com/eliteGoblin/focusd/app_block/internal/policy"
	"github.com/eliteGoblin/focusd/app_block/internal/usecase"
)

// buildBlocker wires the platform adapters for variant.
func buildBlocker(variant domain.Variant, holder *policy.Holder, auditLog domain.AuditLog, logger *zap.Logger) (domain.Blocker, error) {
	pm := infra.NewProcessManager()

	switch variant {
	case domain.VariantFrontmost:
		executor := usecase.NewExecutor(infra.NewMacController(pm), pm, logger)
		if auditLog != nil {
			executor.WithAuditLog(auditLog)
		}
		return usecase.NewFrontmostBlocker(
			infra.NewMacInspector(),
			infra.NewPlistBundleResolver(),
			holder,
			executor,
			logger,
		), nil

	case domain.VariantDesktop:
		executor := usecase.NewExecutor(infra.NewX11Controller(pm), pm, logger)
		if auditLog != nil {
			executor.WithAuditLog(auditLog)
		}
		return usecase.NewDesktopBlocker(infra.NewX11Inspector(pm), holder, executor, logger).
			WithHostedLister(infra.NewProcessTreeLister()), nil
	}

	return nil, fmt.Errorf("unknown variant %q", variant)
}

// openAuditLog opens the encrypted audit log, creating its key on first use.
func openAuditLog(dataDir string) (*infra.EncryptedAuditLog, error) {
	key, err := infra.EnsureKey(infra.NewFileKeyProvider(dataDir))
	if err != nil {
		return nil, fmt.Errorf("audit key: %w", err)
	}
	return infra.NewEncryptedAuditLog(dataDir, key)
}
