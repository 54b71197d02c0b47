package file

import (
	"context"

	"github.com/meridian-labs/brokerauth-cli/internal/core/domain"
	"github.com/meridian-labs/brokerauth-cli/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore projects the token pair and client identity onto the
// TOML store. The rewritten file is the only channel by which the trading
// process observes token changes; no in-process notification exists.
type CredentialStore struct {
	store *Store
}

// NewCredentialStore creates a credential store over a TOML store.
func NewCredentialStore(store *Store) *CredentialStore {
	return &CredentialStore{store: store}
}

// Load reads the client identity and stored credential from disk.
// Missing token keys yield zero values; a missing identity key is
// domain.ErrConfigMissing since no exchange can work without it.
func (s *CredentialStore) Load(_ context.Context) (domain.ClientIdentity, domain.Credential, error) {
	if err := s.store.Reload(); err != nil {
		return domain.ClientIdentity{}, domain.Credential{}, err
	}

	id := domain.ClientIdentity{
		ClientID:     s.store.GetString(KeyClientID),
		ClientSecret: s.store.GetString(KeyClientSecret),
		RedirectURI:  s.store.GetString(KeyRedirectURI),
	}
	if err := id.Validate(); err != nil {
		return domain.ClientIdentity{}, domain.Credential{}, err
	}

	cred := domain.Credential{
		AccessToken:  s.store.GetString(KeyAccessToken),
		RefreshToken: s.store.GetString(KeyRefreshToken),
	}
	return id, cred, nil
}

// Save overwrites the token keys, leaving every other key untouched. An
// empty refresh token never clears a stored one: the broker omitting it
// from a response means the prior token is still valid.
func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	values := map[string]any{
		KeyAccessToken: cred.AccessToken,
	}
	if cred.RefreshToken != "" {
		values[KeyRefreshToken] = cred.RefreshToken
	}

	if err := s.store.SetAll(values); err != nil {
		return &domain.PersistenceError{Path: s.store.Path(), Err: err}
	}
	return nil
}

// Path returns the backing file path.
func (s *CredentialStore) Path() string {
	return s.store.Path()
}
