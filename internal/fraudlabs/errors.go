package fraudlabs

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is returned for HTTP 401.
	ErrAuthentication = errors.New("authentication failed: check your API key with `fraudlabs config set --api-key <key>`")

	// ErrForbidden is returned for HTTP 403.
	ErrForbidden = errors.New("access forbidden: check your API permissions")

	// ErrNotFound is returned for HTTP 404.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned for HTTP 429.
	ErrRateLimited = errors.New("rate limit exceeded: please wait before retrying")

	// ErrNoResponse is matched by every ConnectivityError.
	ErrNoResponse = errors.New("no response from FraudLabs Pro API: check your internet connection")
)

// APIError is a non-2xx answer that has no dedicated sentinel.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// ConnectivityError means the request left the client but no response came back.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string { return ErrNoResponse.Error() }

func (e *ConnectivityError) Unwrap() error { return e.Err }

func (e *ConnectivityError) Is(target error) bool { return target == ErrNoResponse }
