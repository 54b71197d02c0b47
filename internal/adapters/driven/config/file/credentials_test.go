package file

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/brokerauth-cli/internal/core/domain"
)

func newTestCredentialStore(t *testing.T) (*CredentialStore, *Store) {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return NewCredentialStore(store), store
}

func seedIdentity(t *testing.T, store *Store) {
	t.Helper()
	require.NoError(t, store.SetAll(map[string]any{
		KeyClientID:     "client-id",
		KeyClientSecret: "client-secret",
		KeyRedirectURI:  "http://localhost:3000/callback",
	}))
}

func TestCredentialStore_LoadMissingIdentity(t *testing.T) {
	creds, _ := newTestCredentialStore(t)

	_, _, err := creds.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
}

func TestCredentialStore_LoadWithoutTokens(t *testing.T) {
	creds, store := newTestCredentialStore(t)
	seedIdentity(t, store)

	id, cred, err := creds.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "client-id", id.ClientID)
	// Missing tokens are absent, not an error.
	assert.False(t, cred.HasAccessToken())
	assert.False(t, cred.HasRefreshToken())
}

func TestCredentialStore_SaveAndLoad(t *testing.T) {
	creds, store := newTestCredentialStore(t)
	seedIdentity(t, store)

	err := creds.Save(context.Background(), domain.Credential{AccessToken: "at1", RefreshToken: "rt1"})
	require.NoError(t, err)

	_, cred, err := creds.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at1", cred.AccessToken)
	assert.Equal(t, "rt1", cred.RefreshToken)
}

func TestCredentialStore_SavePreservesIdentityKeys(t *testing.T) {
	creds, store := newTestCredentialStore(t)
	seedIdentity(t, store)

	require.NoError(t, creds.Save(context.Background(), domain.Credential{AccessToken: "at1", RefreshToken: "rt1"}))

	id, _, err := creds.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "client-id", id.ClientID)
	assert.Equal(t, "client-secret", id.ClientSecret)
}

func TestCredentialStore_SaveRetainsRefreshToken(t *testing.T) {
	creds, store := newTestCredentialStore(t)
	seedIdentity(t, store)

	require.NoError(t, creds.Save(context.Background(), domain.Credential{AccessToken: "at1", RefreshToken: "rt1"}))
	// Broker omitted the refresh token on the second exchange.
	require.NoError(t, creds.Save(context.Background(), domain.Credential{AccessToken: "at2"}))

	_, cred, err := creds.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at2", cred.AccessToken)
	assert.Equal(t, "rt1", cred.RefreshToken, "stored refresh token must never be silently cleared")
}

func TestCredentialStore_SaveFailureSurfacesPersistenceError(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)
	creds := NewCredentialStore(store)
	seedIdentity(t, store)
	require.NoError(t, creds.Save(context.Background(), domain.Credential{AccessToken: "at1", RefreshToken: "rt1"}))

	// Make the directory unwritable so the temp-file create fails.
	require.NoError(t, os.Chmod(tmpDir, 0500))
	t.Cleanup(func() { _ = os.Chmod(tmpDir, 0700) })

	err = creds.Save(context.Background(), domain.Credential{AccessToken: "at2", RefreshToken: "rt2"})
	var perErr *domain.PersistenceError
	require.ErrorAs(t, err, &perErr)

	// Prior contents are untouched.
	require.NoError(t, os.Chmod(tmpDir, 0700))
	_, cred, err := creds.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at1", cred.AccessToken)
	assert.Equal(t, "rt1", cred.RefreshToken)
}
