package config

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the daemon logger. A log file that cannot be opened
// falls back to stderr.
func NewLogger(lc LoggingConfig) *zap.Logger {
	config := zap.NewProductionConfig()
	if lc.Development {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if level, err := zapcore.ParseLevel(lc.Level); err == nil {
		config.Level = zap.NewAtomicLevelAt(level)
	}

	if lc.File != "" {
		if err := os.MkdirAll(filepath.Dir(lc.File), 0755); err == nil {
			config.OutputPaths = []string{lc.File}
			config.ErrorOutputPaths = []string{lc.File}
		}
	}

	logger, err := config.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}
