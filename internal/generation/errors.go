package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrEmptyTopic is returned when Generate is called without a topic
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrInvalidResponse is returned when the provider response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from generation provider")

	// ErrContentBlocked is returned when the provider blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by provider safety filters")

	// ErrRetriesExhausted is returned when every attempt failed transiently
	ErrRetriesExhausted = errors.New("failed to generate image after multiple retries")

	// ErrInvalidConfig is returned when a generator or provider configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// TransientError marks a provider failure that is expected to resolve on retry,
// such as a timeout or a 5xx response.
type TransientError struct {
	Provider string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError marks a provider failure that will not resolve on retry,
// such as invalid credentials or a rejected prompt.
type PermanentError struct {
	Provider string
	Err      error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// Transient wraps err as a *TransientError. A nil err stays nil.
func Transient(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Provider: provider, Err: err}
}

// Permanent wraps err as a *PermanentError. A nil err stays nil.
func Permanent(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Provider: provider, Err: err}
}

// IsTransient reports whether err, or any error it wraps, is a *TransientError.
// Unclassified errors are treated as permanent.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
