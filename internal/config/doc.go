// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. The loaded Config
// is injected into the HTTP handler and the provider factories; nothing
// outside this package reads the process environment.
package config
