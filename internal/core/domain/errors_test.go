package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network error", &NetworkError{Op: "refresh", Err: errors.New("timeout")}, true},
		{"wrapped network error", fmt.Errorf("refresh: %w", &NetworkError{Op: "refresh", Err: errors.New("reset")}), true},
		{"exchange 503", &ExchangeError{StatusCode: 503}, true},
		{"exchange 429", &ExchangeError{StatusCode: 429}, true},
		{"exchange 400", &ExchangeError{StatusCode: 400, Code: "invalid_request"}, false},
		{"invalid refresh token", ErrInvalidRefreshToken, false},
		{"refresh token missing", ErrRefreshTokenMissing, false},
		{"persistence error", &PersistenceError{Path: "/tmp/x", Err: errors.New("disk full")}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid refresh token", ErrInvalidRefreshToken, true},
		{"wrapped invalid refresh token", fmt.Errorf("refresh: %w", ErrInvalidRefreshToken), true},
		{"refresh token missing", ErrRefreshTokenMissing, true},
		{"config missing", fmt.Errorf("%w: client_id", ErrConfigMissing), true},
		{"persistence error", &PersistenceError{Path: "/tmp/x", Err: errors.New("disk full")}, true},
		{"network error", &NetworkError{Op: "refresh", Err: errors.New("timeout")}, false},
		{"exchange 503", &ExchangeError{StatusCode: 503}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTerminal(tt.err))
		})
	}
}

func TestExchangeError_Error(t *testing.T) {
	withCode := &ExchangeError{StatusCode: 400, Code: "invalid_grant", Description: "bad token"}
	assert.Contains(t, withCode.Error(), "invalid_grant")
	assert.Contains(t, withCode.Error(), "400")

	bare := &ExchangeError{StatusCode: 502}
	assert.Contains(t, bare.Error(), "502")
}

func TestPersistenceError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &PersistenceError{Path: "/tmp/config.toml", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "/tmp/config.toml")
}
