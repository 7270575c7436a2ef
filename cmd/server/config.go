package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashdeck-api/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logConfigSummary logs non-secret configuration details.
func logConfigSummary(cfg *config.Config, logger *slog.Logger) {
	logger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_provider", cfg.LLM.Provider,
		"llm_model", cfg.LLM.ModelName,
		"daily_limit", cfg.Generation.DailyLimit,
		"tracing_enabled", cfg.Tracing.Enabled)

	logger.Debug("Secrets present",
		"database_url", cfg.Database.URL != "",
		"jwt_secret", cfg.Auth.JWTSecret != "",
		"llm_api_key", cfg.LLM.APIKey != "")
}
