package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCity         = errors.New("city name is empty")
	ErrLookupFailure     = errors.New("location lookup failed")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrPersistence       = errors.New("persistence failure")
)

// ProviderError is returned when the weather provider answers with a non-2xx status.
type ProviderError struct {
	Endpoint   string
	StatusCode int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: provider returned status %d", e.Endpoint, e.StatusCode)
}

// TransportError wraps connection or I/O failures talking to the provider.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsClientStatus reports whether err carries a 4xx provider status.
func IsClientStatus(err error) bool {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return pErr.StatusCode >= 400 && pErr.StatusCode < 500
	}
	return false
}
