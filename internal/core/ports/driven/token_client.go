package driven

import (
	"context"

	"github.com/meridian-labs/brokerauth-cli/internal/core/domain"
)

// TokenClient performs the broker's two OAuth exchanges. Implementations
// are stateless; callers own persistence of the returned credential.
//
// Neither call is safe to retry blindly: a successful refresh may rotate
// the refresh token server-side, so callers must not reuse a token that
// may already have been consumed unless the prior attempt is known to
// have failed before persistence.
type TokenClient interface {
	// ExchangeCode performs the authorization-code grant.
	// Fails with *domain.ExchangeError on a non-2xx response and
	// *domain.NetworkError on transport failure.
	ExchangeCode(ctx context.Context, code string, id domain.ClientIdentity) (domain.Credential, error)

	// ExchangeRefresh performs the refresh grant. Same failure taxonomy
	// as ExchangeCode, except a rejected refresh token surfaces as
	// domain.ErrInvalidRefreshToken.
	ExchangeRefresh(ctx context.Context, refreshToken string, id domain.ClientIdentity) (domain.Credential, error)
}
