package driven

import (
	"context"

	"github.com/meridian-labs/brokerauth-cli/internal/core/domain"
)

// CredentialStore persists the token pair on the shared configuration
// surface that the trading process reads. The lifecycle manager is the
// sole writer; any number of external processes may read concurrently,
// so implementations must replace the file atomically.
type CredentialStore interface {
	// Load reads the client identity and whatever credential is stored.
	// Missing token keys yield zero values, not an error. Missing
	// identity keys yield domain.ErrConfigMissing.
	Load(ctx context.Context) (domain.ClientIdentity, domain.Credential, error)

	// Save overwrites the token keys, preserving every other key in the
	// store untouched. A credential with an empty refresh token must not
	// clear a previously stored one. Failures surface as
	// *domain.PersistenceError.
	Save(ctx context.Context, cred domain.Credential) error

	// Path returns the backing file path, for logs and diagnostics.
	Path() string
}
