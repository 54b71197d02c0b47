package upstox

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/meridian-labs/brokerauth-cli/internal/core/ports/driving"
)

// TokenSourceAdapter adapts the token lifecycle to oauth2.TokenSource so
// broker SDK clients can consume the managed credential directly.
//
// Token reads from the store and never refreshes: renewal cadence is
// owned by the scheduler, not by API callers.
type TokenSourceAdapter struct {
	lifecycle driving.TokenLifecycle
	ctx       context.Context
}

// NewTokenSource creates an oauth2.TokenSource over the lifecycle manager.
func NewTokenSource(ctx context.Context, lifecycle driving.TokenLifecycle) oauth2.TokenSource {
	return &TokenSourceAdapter{
		lifecycle: lifecycle,
		ctx:       ctx,
	}
}

// Token implements oauth2.TokenSource.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	accessToken, err := t.lifecycle.CurrentToken(t.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
