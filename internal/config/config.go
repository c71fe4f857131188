package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Retry      RetryConfig      `mapstructure:"retry" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
	MetricsEnabled         bool   `mapstructure:"metrics_enabled"`
}

// LLMConfig contains provider selection, model names and the provider secrets.
//
// The secrets are not tagged as required: a missing secret is
// reported per request so the operator gets a message naming the variable.
type LLMConfig struct {
	ImageProvider   string `mapstructure:"image_provider" validate:"required,oneof=gemini replicate huggingface"`
	CaptionProvider string `mapstructure:"caption_provider" validate:"required,oneof=gemini none"`

	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ReplicateAPIToken string `mapstructure:"replicate_api_token"`
	HFAPIToken        string `mapstructure:"hf_api_token"`

	TextModel        string `mapstructure:"text_model" validate:"required"`
	GeminiImageModel string `mapstructure:"gemini_image_model" validate:"required"`
	ReplicateModel   string `mapstructure:"replicate_model" validate:"required"`
	HFModel          string `mapstructure:"hf_model" validate:"required"`

	// RequestTimeoutSeconds bounds a single outbound provider HTTP call.
	// Zero leaves the call unbounded.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gte=0"`
}

// RetryConfig controls the retry loop around the image-generation call.
type RetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	MaxAttempts int     `mapstructure:"max_attempts" validate:"required,gte=1,lte=10"`
	BaseDelayMS int     `mapstructure:"base_delay_ms" validate:"gte=0"`
	Multiplier  float64 `mapstructure:"multiplier" validate:"gt=1"`

	// CoverURLFetch also puts the secondary fetch of a URL result under the
	// retry policy. Off by default.
	CoverURLFetch bool `mapstructure:"cover_url_fetch"`
}

// GenerationConfig holds prompt templates and invocation options.
type GenerationConfig struct {
	CaptionPrompt string `mapstructure:"caption_prompt"`
	ImagePrompt   string `mapstructure:"image_prompt"`
	Concurrent    bool   `mapstructure:"concurrent"`
}

// Secrets returns the provider secrets held by this configuration.
func (c *Config) Secrets() Secrets {
	return Secrets{
		EnvGeminiAPIKey:      c.LLM.GeminiAPIKey,
		EnvReplicateAPIToken: c.LLM.ReplicateAPIToken,
		EnvHFAPIToken:        c.LLM.HFAPIToken,
	}
}

// RequiredSecrets lists the secret names the selected providers need.
func (c *Config) RequiredSecrets() []string {
	var names []string
	if c.LLM.CaptionProvider == ProviderGemini {
		names = append(names, EnvGeminiAPIKey)
	}
	switch c.LLM.ImageProvider {
	case ProviderGemini:
		if c.LLM.CaptionProvider != ProviderGemini {
			names = append(names, EnvGeminiAPIKey)
		}
	case ProviderReplicate:
		names = append(names, EnvReplicateAPIToken)
	case ProviderHuggingFace:
		names = append(names, EnvHFAPIToken)
	}
	return names
}

// Provider names accepted by LLMConfig.
const (
	ProviderGemini      = "gemini"
	ProviderReplicate   = "replicate"
	ProviderHuggingFace = "huggingface"
	ProviderNone        = "none"
)
