package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredential_Merged(t *testing.T) {
	tests := []struct {
		name string
		cred Credential
		prev Credential
		want string
	}{
		{
			name: "new refresh token replaces old",
			cred: Credential{AccessToken: "at2", RefreshToken: "rt2"},
			prev: Credential{AccessToken: "at1", RefreshToken: "rt1"},
			want: "rt2",
		},
		{
			name: "omitted refresh token retains old",
			cred: Credential{AccessToken: "at2"},
			prev: Credential{AccessToken: "at1", RefreshToken: "rt1"},
			want: "rt1",
		},
		{
			name: "no prior refresh token stays empty",
			cred: Credential{AccessToken: "at2"},
			prev: Credential{AccessToken: "at1"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cred.Merged(tt.prev)
			assert.Equal(t, tt.want, got.RefreshToken)
			assert.Equal(t, tt.cred.AccessToken, got.AccessToken)
		})
	}
}

func TestCredential_HasTokens(t *testing.T) {
	assert.False(t, Credential{}.HasAccessToken())
	assert.False(t, Credential{}.HasRefreshToken())
	assert.True(t, Credential{AccessToken: "at"}.HasAccessToken())
	assert.True(t, Credential{RefreshToken: "rt"}.HasRefreshToken())
}

func TestClientIdentity_Validate(t *testing.T) {
	valid := ClientIdentity{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://localhost:3000/callback"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		id   ClientIdentity
	}{
		{"missing client_id", ClientIdentity{ClientSecret: "s", RedirectURI: "r"}},
		{"missing client_secret", ClientIdentity{ClientID: "i", RedirectURI: "r"}},
		{"missing redirect_uri", ClientIdentity{ClientID: "i", ClientSecret: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			assert.True(t, errors.Is(err, ErrConfigMissing))
		})
	}
}
