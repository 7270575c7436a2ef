package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains the settings of the language model provider used to
// generate flashcards.
type LLMConfig struct {
	// Provider selects the adapter: "openai" (any OpenAI-compatible endpoint) or "gemini".
	Provider string `mapstructure:"provider" validate:"required,oneof=openai gemini"`
	APIKey   string `mapstructure:"api_key" validate:"required"`
	// BaseURL overrides the provider endpoint, e.g. https://openrouter.ai/api/v1.
	BaseURL     string  `mapstructure:"base_url" validate:"omitempty,url"`
	ModelName   string  `mapstructure:"model_name" validate:"required"`
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"required,gt=0"`

	MaxRetries            int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseRetryDelayMS      int `mapstructure:"base_retry_delay_ms" validate:"gte=0"`
	MaxRetryDelayMS       int `mapstructure:"max_retry_delay_ms" validate:"gtefield=BaseRetryDelayMS"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// GenerationConfig contains the limits enforced by the flashcard generation pipeline.
type GenerationConfig struct {
	DailyLimit            int `mapstructure:"daily_limit" validate:"required,gt=0"`
	DefaultFlashcardCount int `mapstructure:"default_flashcard_count" validate:"required,gt=0,ltefield=MaxFlashcardCount"`
	MinSourceLength       int `mapstructure:"min_source_length" validate:"required,gt=0"`
	MaxSourceLength       int `mapstructure:"max_source_length" validate:"required,gtfield=MinSourceLength"`
	MaxFlashcardCount     int `mapstructure:"max_flashcard_count" validate:"required,gt=0"`
}

// TracingConfig controls OpenTelemetry tracing.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}
