package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

func validate(cfg *Config) error {
	switch cfg.Variant {
	case domain.VariantDesktop, domain.VariantFrontmost:
	default:
		return fmt.Errorf("invalid variant %q: must be %s or %s",
			cfg.Variant, domain.VariantDesktop, domain.VariantFrontmost)
	}

	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", cfg.PollInterval)
	}
	if cfg.PolicyReloadInterval <= 0 {
		return fmt.Errorf("policy_reload_interval must be positive, got %s", cfg.PolicyReloadInterval)
	}
	if cfg.PolicyFile == "" {
		return fmt.Errorf("policy_file must be set")
	}

	if _, err := zapcore.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", cfg.Logging.Level, err)
	}

	if cfg.Audit.Enabled && cfg.Audit.DataDir == "" {
		return fmt.Errorf("audit.data_dir must be set when audit is enabled")
	}

	return nil
}
