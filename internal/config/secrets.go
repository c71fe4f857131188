package config

import "fmt"

// Environment variable names of the provider secrets.
const (
	EnvGeminiAPIKey      = "GEMINI_API_KEY"
	EnvReplicateAPIToken = "REPLICATE_API_TOKEN"
	EnvHFAPIToken        = "HF_API_TOKEN"
)

// ConfigurationError reports a required secret that is not set.
type ConfigurationError struct {
	Name string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("API key is not set. Please add %s to your environment variables.", e.Name)
}

// Secrets maps secret names to their values.
type Secrets map[string]string

// Lookup returns the value of the named secret, or "" when unset.
func (s Secrets) Lookup(name string) string {
	return s[name]
}

// Require returns a *ConfigurationError for the first name that has no value.
func (s Secrets) Require(names ...string) error {
	for _, name := range names {
		if s.Lookup(name) == "" {
			return &ConfigurationError{Name: name}
		}
	}
	return nil
}
