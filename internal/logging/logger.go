package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/4oBuko/spy-cat-agency-records/internal/config"
)

// New builds the process logger. Development mode switches to the console
// encoder; the level string accepts anything zap understands.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = level
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("agency"), nil
}
