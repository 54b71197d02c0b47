package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meridian-labs/brokerauth-cli/internal/core/domain"
	"github.com/meridian-labs/brokerauth-cli/internal/core/ports/driven"
	"github.com/meridian-labs/brokerauth-cli/internal/core/ports/driving"
)

// Ensure LifecycleManager implements the interface.
var _ driving.TokenLifecycle = (*LifecycleManager)(nil)

// AuthorizationURLBuilder builds the broker's authorization dialog URL for
// a client identity. Provided by the broker adapter.
type AuthorizationURLBuilder func(id domain.ClientIdentity) string

// LifecycleManager orchestrates the credential store and the token client.
// It owns correctness of the persisted state: a save only ever happens
// after a successful exchange, and a refresh response that omits the
// refresh token never discards the stored one.
//
// Bootstrap and Refresh are serialized with a mutex. Two concurrent
// refreshes against the same refresh token could each rotate it
// server-side and one would spuriously observe an invalid-token rejection.
type LifecycleManager struct {
	store    driven.CredentialStore
	client   driven.TokenClient
	authURL  AuthorizationURLBuilder
	now      func() time.Time
	exchange sync.Mutex
}

// NewLifecycleManager creates a lifecycle manager.
func NewLifecycleManager(
	store driven.CredentialStore,
	client driven.TokenClient,
	authURL AuthorizationURLBuilder,
) *LifecycleManager {
	return &LifecycleManager{
		store:   store,
		client:  client,
		authURL: authURL,
		now:     time.Now,
	}
}

// CurrentToken returns the stored access token without any network
// activity. The caller is trusted to have refreshed recently enough; the
// token itself is opaque and carries no decodable expiry.
func (m *LifecycleManager) CurrentToken(ctx context.Context) (string, error) {
	_, cred, err := m.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if !cred.HasAccessToken() {
		return "", domain.ErrNotInitialized
	}
	return cred.AccessToken, nil
}

// Bootstrap exchanges an authorization code for the initial token pair
// and persists it. On exchange failure nothing is written.
func (m *LifecycleManager) Bootstrap(ctx context.Context, code string) (domain.Credential, error) {
	if code == "" {
		return domain.Credential{}, fmt.Errorf("%w: empty authorization code", domain.ErrInvalidInput)
	}

	m.exchange.Lock()
	defer m.exchange.Unlock()

	id, prev, err := m.store.Load(ctx)
	if err != nil {
		return domain.Credential{}, err
	}

	cred, err := m.client.ExchangeCode(ctx, code, id)
	if err != nil {
		return domain.Credential{}, err
	}

	cred.IssuedAt = m.now()
	cred = cred.Merged(prev)
	if err := m.store.Save(ctx, cred); err != nil {
		return domain.Credential{}, err
	}
	return cred, nil
}

// Refresh exchanges the stored refresh token for a new pair and persists
// it. A rejected refresh token surfaces as domain.ErrInvalidRefreshToken;
// the stored tokens are left as-is for diagnosis, but every subsequent
// refresh will fail the same way until bootstrap is rerun.
func (m *LifecycleManager) Refresh(ctx context.Context) (domain.Credential, error) {
	m.exchange.Lock()
	defer m.exchange.Unlock()

	id, prev, err := m.store.Load(ctx)
	if err != nil {
		return domain.Credential{}, err
	}
	if !prev.HasRefreshToken() {
		return domain.Credential{}, domain.ErrRefreshTokenMissing
	}

	cred, err := m.client.ExchangeRefresh(ctx, prev.RefreshToken, id)
	if err != nil {
		return domain.Credential{}, err
	}

	cred.IssuedAt = m.now()
	cred = cred.Merged(prev)
	if err := m.store.Save(ctx, cred); err != nil {
		return domain.Credential{}, err
	}
	return cred, nil
}

// AuthorizationURL returns the dialog URL built from the stored identity.
func (m *LifecycleManager) AuthorizationURL(ctx context.Context) (string, error) {
	id, _, err := m.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if m.authURL == nil {
		return "", domain.ErrInvalidInput
	}
	return m.authURL(id), nil
}
