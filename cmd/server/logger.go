package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/platform/telemetry"
)

// setupAppLogger configures the process-wide JSON logger.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	logConfigSummary(cfg, l)
	return l, nil
}

// setupAppTracing installs the global tracer provider.
func setupAppTracing(cfg *config.Config, l *slog.Logger) (telemetry.ShutdownFunc, error) {
	shutdown, err := telemetry.Setup(cfg.Tracing, l)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	return shutdown, nil
}
