// Package redact provides utilities for redacting sensitive information from strings
// before they are logged. Provider SDK and HTTP errors routinely echo request URLs
// and headers, so credentials for the generation providers are the main target.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules are applied in order; provider-specific token shapes go first so the
// generic rules never see a partially redacted value.
var rules = []rule{
	// Google API keys (Gemini)
	{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{20,}`), RedactedKeyPlaceholder},
	// Replicate API tokens
	{regexp.MustCompile(`\br8_[0-9A-Za-z]{8,}`), RedactedKeyPlaceholder},
	// Hugging Face access tokens
	{regexp.MustCompile(`\bhf_[0-9A-Za-z]{8,}`), RedactedKeyPlaceholder},
	// Authorization header values
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/=]{8,}`), RedactedCredentialPlaceholder},
	// Credentials passed as URL query parameters
	{regexp.MustCompile(`(?i)([?&](?:key|api_key|token|access_token)=)[^&\s"':\[]+`), "${1}" + RedactedKeyPlaceholder},
	// Generic key/value assignments
	{
		regexp.MustCompile(`(?i)(api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},
	// Go stack trace fragments
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), RedactedStackPlaceholder},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
