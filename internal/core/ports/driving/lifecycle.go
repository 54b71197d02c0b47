package driving

import (
	"context"

	"github.com/meridian-labs/brokerauth-cli/internal/core/domain"
)

// TokenLifecycle manages the credential from first authorization through
// daily renewal. The only durable state is the persisted credential, so
// implementations are stateless across process restarts.
type TokenLifecycle interface {
	// CurrentToken returns the stored access token. It never performs
	// network activity. Fails with domain.ErrNotInitialized when no
	// token is stored.
	CurrentToken(ctx context.Context) (string, error)

	// Bootstrap exchanges a one-time authorization code for the initial
	// token pair and persists it. Used for first-time setup and for
	// manual recovery after the refresh token becomes invalid. On
	// failure the store is left untouched.
	Bootstrap(ctx context.Context, code string) (domain.Credential, error)

	// Refresh exchanges the stored refresh token for a new pair and
	// persists it. Fails with domain.ErrRefreshTokenMissing (without a
	// network call) when no refresh token is stored, and with
	// domain.ErrInvalidRefreshToken when the broker rejects it.
	Refresh(ctx context.Context) (domain.Credential, error)

	// AuthorizationURL returns the broker dialog URL the operator must
	// visit to obtain an authorization code.
	AuthorizationURL(ctx context.Context) (string, error)
}
