package provider

import (
	"errors"
	"fmt"
)

// Common provider errors.
var (
	// ErrUnknownProvider indicates a provider name with no registered engine.
	ErrUnknownProvider = errors.New("unknown TTS provider")

	// ErrMissingAPIKey indicates a cloud provider constructed without credentials.
	ErrMissingAPIKey = errors.New("API key not found")

	// ErrProviderUnavailable indicates the provider cannot run on this system.
	ErrProviderUnavailable = errors.New("TTS provider is not available")

	// ErrEmptyText indicates a synthesis request with nothing to say.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrTextTooLong indicates text beyond the vendor's request limit.
	ErrTextTooLong = errors.New("text too long for provider")

	// ErrUnsupportedFormat indicates a format the provider cannot produce.
	ErrUnsupportedFormat = errors.New("audio format not supported by provider")
)

// APIError reports a vendor API call that returned a non-success status.
type APIError struct {
	Provider   string
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s returned %d: %s", e.Provider, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s returned %d", e.Provider, e.StatusCode)
}
