package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the service logger.
// jsonOutput selects the production JSON encoder, otherwise a colored console encoder is used.
func New(level string, jsonOutput bool) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if jsonOutput {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stdout"}

	return cfg.Build()
}
