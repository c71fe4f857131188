// Package api implements the HTTP surface of the meme service.
//
// MemeHandler validates the request, checks that the secrets the configured
// providers need are present, builds a generation.Generator through a
// GeneratorFactory and shapes the result into JSON. Clients never see
// provider error details; those are redacted and logged.
//
// The shared subpackage holds response and request helpers used by the
// handlers, and middleware holds the trace middleware.
package api
