package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. FLASHDECK_LLM_API_KEY for llm.api_key.
const EnvPrefix = "FLASHDECK"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are only visible to Unmarshal once bound.
	for _, key := range []string{"database.url", "auth.jwt_secret", "llm.api_key", "llm.base_url"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model_name", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 4000)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.base_retry_delay_ms", 1000)
	v.SetDefault("llm.max_retry_delay_ms", 10000)
	v.SetDefault("llm.request_timeout_seconds", 60)

	v.SetDefault("generation.daily_limit", 10)
	v.SetDefault("generation.default_flashcard_count", 10)
	v.SetDefault("generation.min_source_length", 1000)
	v.SetDefault("generation.max_source_length", 10000)
	v.SetDefault("generation.max_flashcard_count", 100)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "flashdeck-api")
}
