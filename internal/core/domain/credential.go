package domain

import "time"

// Credential is the renewable token pair issued by the broker.
//
// The access token is opaque: it carries no decodable expiry. The broker
// invalidates it at a fixed wall-clock cutover the day after issuance, so
// freshness is a matter of renewal cadence, never of token content.
type Credential struct {
	// AccessToken is the bearer token for broker API calls.
	AccessToken string `json:"access_token"`
	// RefreshToken mints a new access token without re-authorization.
	// The broker may omit it on a refresh response, in which case the
	// previously stored value remains in effect.
	RefreshToken string `json:"refresh_token,omitempty"`
	// IssuedAt is when this pair was obtained. Diagnostic only.
	IssuedAt time.Time `json:"issued_at,omitempty"`
}

// HasAccessToken returns true if an access token is present.
func (c Credential) HasAccessToken() bool {
	return c.AccessToken != ""
}

// HasRefreshToken returns true if a refresh token is present.
func (c Credential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// Merged returns the credential with gaps filled from prev. A refresh
// response that omits the refresh token never discards the stored one.
func (c Credential) Merged(prev Credential) Credential {
	if c.RefreshToken == "" {
		c.RefreshToken = prev.RefreshToken
	}
	return c
}

// ClientIdentity is the per-deployment OAuth app identity registered with
// the broker. Loaded once at startup and never mutated.
type ClientIdentity struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Validate reports ErrConfigMissing if any mandatory field is absent.
// All three fields are required for any token exchange.
func (id ClientIdentity) Validate() error {
	switch {
	case id.ClientID == "":
		return fieldMissing("client_id")
	case id.ClientSecret == "":
		return fieldMissing("client_secret")
	case id.RedirectURI == "":
		return fieldMissing("redirect_uri")
	}
	return nil
}
