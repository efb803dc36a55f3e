package config

import (
	"runtime"

	"github.com/spf13/viper"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	paths := ResolvePaths()

	v.SetDefault("variant", string(defaultVariant(runtime.GOOS)))
	v.SetDefault("poll_interval", "1s")
	v.SetDefault("policy_reload_interval", "30s")
	v.SetDefault("policy_file", paths.PolicyFile)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.development", false)

	// Audit defaults
	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.data_dir", paths.DataDir)
}

// defaultVariant picks the decision procedure native to goos.
func defaultVariant(goos string) domain.Variant {
	if goos == "darwin" {
		return domain.VariantFrontmost
	}
	return domain.VariantDesktop
}
