package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets environment variables for the duration of the test.
// An empty value hides any value inherited from the host environment.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

// clearSecrets hides provider secrets inherited from the host environment.
func clearSecrets(t *testing.T) {
	t.Helper()
	setupEnv(t, map[string]string{
		EnvGeminiAPIKey:      "",
		EnvReplicateAPIToken: "",
		EnvHFAPIToken:        "",
	})
}

// TestLoadDefaults verifies that Load sets the expected default values when no
// environment variables are set.
func TestLoadDefaults(t *testing.T) {
	clearSecrets(t)
	setupEnv(t, map[string]string{
		"MEME_SERVER_PORT":      "",
		"MEME_SERVER_LOG_LEVEL": "",
	})

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg, "Load() should return a non-nil config")
	assert.Equal(t, 8080, cfg.Server.Port, "Default server port should be 8080")
	assert.Equal(t, "info", cfg.Server.LogLevel, "Default log level should be 'info'")
	assert.Equal(t, 10, cfg.Server.ShutdownTimeoutSeconds)
	assert.True(t, cfg.Server.MetricsEnabled)
	assert.Equal(t, ProviderGemini, cfg.LLM.ImageProvider)
	assert.Equal(t, ProviderGemini, cfg.LLM.CaptionProvider)
	assert.True(t, cfg.Retry.Enabled, "Retry should be enabled by default")
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 1000, cfg.Retry.BaseDelayMS)
	assert.Equal(t, 2.0, cfg.Retry.Multiplier)
	assert.False(t, cfg.Retry.CoverURLFetch, "URL fetch should not be retried by default")
	assert.Equal(t, DefaultCaptionPrompt, cfg.Generation.CaptionPrompt)
	assert.Equal(t, DefaultImagePrompt, cfg.Generation.ImagePrompt)
}

// TestLoadMissingSecrets verifies that absent secrets do not fail loading;
// they are reported per request instead.
func TestLoadMissingSecrets(t *testing.T) {
	clearSecrets(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.GeminiAPIKey)
	err = cfg.Secrets().Require(cfg.RequiredSecrets()...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvGeminiAPIKey)
}

// TestLoadFromEnv verifies that Load correctly reads values from environment variables.
func TestLoadFromEnv(t *testing.T) {
	setupEnv(t, map[string]string{
		"MEME_SERVER_PORT":           "9090",
		"MEME_SERVER_LOG_LEVEL":      "debug",
		"MEME_LLM_IMAGE_PROVIDER":    "replicate",
		"MEME_LLM_CAPTION_PROVIDER":  "none",
		"MEME_RETRY_MAX_ATTEMPTS":    "5",
		"MEME_RETRY_BASE_DELAY_MS":   "2000",
		"MEME_RETRY_COVER_URL_FETCH": "true",
		"MEME_GENERATION_CONCURRENT": "true",
		EnvGeminiAPIKey:              "test-gemini-key",
		EnvReplicateAPIToken:         "r8_testtoken",
		EnvHFAPIToken:                "hf_testtoken",
	})

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with valid environment variables")
	require.NotNil(t, cfg)
	assert.Equal(t, 9090, cfg.Server.Port, "Server port should be loaded from environment variables")
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, ProviderReplicate, cfg.LLM.ImageProvider)
	assert.Equal(t, ProviderNone, cfg.LLM.CaptionProvider)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2000, cfg.Retry.BaseDelayMS)
	assert.True(t, cfg.Retry.CoverURLFetch)
	assert.True(t, cfg.Generation.Concurrent)
	assert.Equal(t, "test-gemini-key", cfg.LLM.GeminiAPIKey, "Gemini API key should be read from GEMINI_API_KEY")
	assert.Equal(t, "r8_testtoken", cfg.LLM.ReplicateAPIToken, "Replicate token should be read from REPLICATE_API_TOKEN")
	assert.Equal(t, "hf_testtoken", cfg.LLM.HFAPIToken, "HF token should be read from HF_API_TOKEN")
}

// TestLoadValidationErrors verifies that Load correctly validates the configuration.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "Invalid port number",
			envVars: map[string]string{"MEME_SERVER_PORT": "999999"},
		},
		{
			name:    "Invalid log level",
			envVars: map[string]string{"MEME_SERVER_LOG_LEVEL": "invalid-level"},
		},
		{
			name:    "Unknown image provider",
			envVars: map[string]string{"MEME_LLM_IMAGE_PROVIDER": "dalle"},
		},
		{
			name:    "Unknown caption provider",
			envVars: map[string]string{"MEME_LLM_CAPTION_PROVIDER": "replicate"},
		},
		{
			name:    "Too many retry attempts",
			envVars: map[string]string{"MEME_RETRY_MAX_ATTEMPTS": "50"},
		},
		{
			name:    "Multiplier below one",
			envVars: map[string]string{"MEME_RETRY_MULTIPLIER": "0.5"},
		},
		{
			name:    "Multiplier of one gives constant backoff",
			envVars: map[string]string{"MEME_RETRY_MULTIPLIER": "1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearSecrets(t)
			setupEnv(t, tc.envVars)

			cfg, err := Load()

			require.Error(t, err, "Load() should return an error with invalid configuration")
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg, "Config should be nil when an error occurs")
		})
	}
}
