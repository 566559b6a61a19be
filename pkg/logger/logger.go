package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process logger. dev switches to the human readable console
// encoder; level accepts anything zap understands ("debug", "info", ...).
func New(level string, dev bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}

	return cfg.Build()
}
