package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for non-secret environment overrides, e.g.
// MEME_SERVER_PORT or MEME_RETRY_MAX_ATTEMPTS.
const EnvPrefix = "MEME"

// Default prompt templates. {{.Topic}} is replaced with the requested topic.
const (
	DefaultCaptionPrompt = `Generate a funny, concise, and clever meme caption in English for the topic "{{.Topic}}". It can be one or two lines.`
	DefaultImagePrompt   = `A humorous, high-quality, modern internet meme image based on the topic: "{{.Topic}}". The style should be realistic and slightly absurd.`
)

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets are read from their bare, unprefixed names.
	secretBindings := map[string]string{
		"llm.gemini_api_key":      EnvGeminiAPIKey,
		"llm.replicate_api_token": EnvReplicateAPIToken,
		"llm.hf_api_token":        EnvHFAPIToken,
	}
	for key, env := range secretBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.metrics_enabled", true)

	v.SetDefault("llm.image_provider", ProviderGemini)
	v.SetDefault("llm.caption_provider", ProviderGemini)
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.replicate_api_token", "")
	v.SetDefault("llm.hf_api_token", "")
	v.SetDefault("llm.text_model", "gemini-2.0-flash")
	v.SetDefault("llm.gemini_image_model", "gemini-2.0-flash-preview-image-generation")
	v.SetDefault("llm.replicate_model", "black-forest-labs/flux-schnell")
	v.SetDefault("llm.hf_model", "stabilityai/stable-diffusion-xl-base-1.0")
	v.SetDefault("llm.request_timeout_seconds", 0)

	v.SetDefault("retry.enabled", true)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay_ms", 1000)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.cover_url_fetch", false)

	v.SetDefault("generation.caption_prompt", DefaultCaptionPrompt)
	v.SetDefault("generation.image_prompt", DefaultImagePrompt)
	v.SetDefault("generation.concurrent", false)
}
