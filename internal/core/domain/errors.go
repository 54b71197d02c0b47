package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrConfigMissing indicates a mandatory identity field (client_id,
	// client_secret, redirect_uri) is absent from the config store.
	// Fatal for any operation that performs a token exchange.
	ErrConfigMissing = errors.New("mandatory configuration missing")

	// ErrNotInitialized indicates no access token is stored yet.
	// Run bootstrap with an authorization code first.
	ErrNotInitialized = errors.New("no access token stored")

	// ErrRefreshTokenMissing indicates a refresh was requested but no
	// refresh token is on record. Automated renewal is impossible until
	// bootstrap is rerun.
	ErrRefreshTokenMissing = errors.New("no refresh token stored")

	// ErrInvalidRefreshToken indicates the broker rejected the refresh
	// token itself. Manual re-authorization is required.
	ErrInvalidRefreshToken = errors.New("refresh token rejected by broker")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)

// fieldMissing wraps ErrConfigMissing with the name of the absent key.
func fieldMissing(key string) error {
	return fmt.Errorf("%w: %s", ErrConfigMissing, key)
}

// ExchangeError is a non-2xx response from the broker's token endpoint.
type ExchangeError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Code is the structured error code from the response body, if any
	// (e.g. "invalid_grant", "UDAPI100057").
	Code string
	// Description is the human-readable message from the response body.
	Description string
}

func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("token exchange failed: %s - %s (status %d)", e.Code, e.Description, e.StatusCode)
	}
	return fmt.Sprintf("token exchange failed with status %d", e.StatusCode)
}

// Transient returns true if the exchange is worth retrying: the broker
// failed server-side or throttled the request.
func (e *ExchangeError) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// NetworkError is a transport-level failure (timeout, DNS, connection
// reset) before any HTTP status was received. Always transient.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// PersistenceError is a failed write to the credential store. It is never
// retried automatically: a retry would perform a fresh exchange against a
// possibly already-rotated refresh token without being able to record the
// result.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist credential to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsTransient reports whether err is safe to retry within the same day:
// transport failures and server-side exchange failures.
func IsTransient(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var exErr *ExchangeError
	if errors.As(err, &exErr) {
		return exErr.Transient()
	}
	return false
}

// IsTerminal reports whether err requires operator action before any
// further automated refresh can succeed.
func IsTerminal(err error) bool {
	if errors.Is(err, ErrInvalidRefreshToken) ||
		errors.Is(err, ErrRefreshTokenMissing) ||
		errors.Is(err, ErrConfigMissing) {
		return true
	}
	var perErr *PersistenceError
	return errors.As(err, &perErr)
}
