package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a provider-neutral LLM error. It preserves the original
// provider error as its cause and carries enough status information for the
// HTTP boundary to map it to a response code.
type Error struct {
	Type        ErrorType
	Message     string
	StatusCode  int
	ProviderErr error // Original provider-specific error
}

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeAuth           ErrorType = "auth"
	ErrorTypeRateLimit      ErrorType = "rate_limit"
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeProvider       ErrorType = "provider"
	ErrorTypeNetwork        ErrorType = "network"
	ErrorTypeUnknown        ErrorType = "unknown"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ProviderErr != nil {
		return e.Message + ": " + e.ProviderErr.Error()
	}
	return e.Message
}

// Unwrap returns the underlying provider error.
func (e *Error) Unwrap() error {
	return e.ProviderErr
}

// IsAuthError checks if an error is an authentication/authorization error.
func IsAuthError(err error) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type == ErrorTypeAuth
	}
	return false
}

// IsRateLimitError checks if an error is a rate limit error.
func IsRateLimitError(err error) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type == ErrorTypeRateLimit
	}
	return false
}

// NewAuthError creates a new authentication error.
func NewAuthError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeAuth,
		Message:     message,
		StatusCode:  http.StatusUnauthorized,
		ProviderErr: providerErr,
	}
}

// NewRateLimitError creates a new rate limit error.
func NewRateLimitError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeRateLimit,
		Message:     message,
		StatusCode:  http.StatusTooManyRequests,
		ProviderErr: providerErr,
	}
}

// NewProviderError creates a new generic provider error.
func NewProviderError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeProvider,
		Message:     message,
		ProviderErr: providerErr,
	}
}

// ClassifyStatus maps a provider HTTP status code to a provider-neutral error.
// Both provider families funnel their API errors through here so the loop engine
// and the HTTP boundary see one taxonomy.
func ClassifyStatus(provider string, status int, message string, cause error) *Error {
	errType := ErrorTypeProvider
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		errType = ErrorTypeAuth
	case http.StatusTooManyRequests:
		errType = ErrorTypeRateLimit
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		errType = ErrorTypeInvalidRequest
	}
	return &Error{
		Type:        errType,
		Message:     fmt.Sprintf("%s API error: %s", provider, message),
		StatusCode:  status,
		ProviderErr: cause,
	}
}

// UnsupportedModelError indicates that a model id matched no registered provider
// family. It is fatal: the request is rejected without any provider call.
type UnsupportedModelError struct {
	Model string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported model: %q matches no known provider family", e.Model)
}

// IsUnsupportedModelError checks if an error is an UnsupportedModelError.
func IsUnsupportedModelError(err error) bool {
	var umErr *UnsupportedModelError
	return errors.As(err, &umErr)
}
