package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/platform/gemini"
	"github.com/phrazzld/flashdeck-api/internal/platform/openai"
	"github.com/phrazzld/flashdeck-api/internal/platform/postgres"
	"github.com/phrazzld/flashdeck-api/internal/service"
	"github.com/phrazzld/flashdeck-api/internal/service/auth"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService        auth.JWTService
	generationService service.GenerationService
}

// newApplication wires stores, the language model client and the
// generation service on top of an open database connection.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	provider, err := newProvider(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	client, err := generation.NewClient(
		provider,
		generation.ClientConfigFromLLM(cfg.LLM),
		logger.With("component", "llm_client"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	logger.Info("LLM client initialized",
		"provider", provider.Name(),
		"model", client.Model())

	app.generationService, err = service.NewGenerationService(
		postgres.NewPostgresGenerationStore(db, logger),
		postgres.NewPostgresDeckStore(db, logger),
		client,
		service.GenerationServiceConfig{
			DailyLimit: cfg.Generation.DailyLimit,
			Limits:     generation.LimitsFromConfig(cfg.Generation),
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// newProvider selects the language model adapter named by cfg.Provider.
func newProvider(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Provider, error) {
	switch cfg.Provider {
	case openai.ProviderName:
		return openai.NewProvider(cfg, logger)
	case gemini.ProviderName:
		return gemini.NewProvider(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// Run serves HTTP until ctx is cancelled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
