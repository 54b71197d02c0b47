package oauth

import (
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, expectedState string) *CallbackServer {
	t.Helper()

	srv, err := NewCallbackServer("http://127.0.0.1:0/callback", expectedState)
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })

	return srv
}

func get(t *testing.T, srv *CallbackServer, query string) string {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("http://%s/callback?%s", srv.Addr(), query))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewCallbackServer_RejectsNonHTTP(t *testing.T) {
	_, err := NewCallbackServer("https://broker.example/callback", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only http redirects")
}

func TestNewCallbackServer_DefaultsRootPath(t *testing.T) {
	srv, err := NewCallbackServer("http://127.0.0.1:0", "")
	require.NoError(t, err)
	assert.Equal(t, "/", srv.path)
}

func TestCallbackServer_CapturesCode(t *testing.T) {
	srv := startServer(t, "")

	body := get(t, srv, "code=auth-code-1")
	assert.Contains(t, body, "Authorization successful")

	code, err := srv.WaitForCode(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "auth-code-1", code)
}

func TestCallbackServer_ErrorParameter(t *testing.T) {
	srv := startServer(t, "")

	body := get(t, srv, "error=access_denied&error_description=user+cancelled")
	assert.Contains(t, body, "Authorization failed")

	_, err := srv.WaitForCode(2 * time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestCallbackServer_StateMismatch(t *testing.T) {
	srv := startServer(t, "expected-state")

	get(t, srv, "code=auth-code-1&state=wrong")

	_, err := srv.WaitForCode(2 * time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestCallbackServer_StateMatches(t *testing.T) {
	srv := startServer(t, "expected-state")

	get(t, srv, "code=auth-code-2&state=expected-state")

	code, err := srv.WaitForCode(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "auth-code-2", code)
}

func TestCallbackServer_MissingCode(t *testing.T) {
	srv := startServer(t, "")

	get(t, srv, "")

	_, err := srv.WaitForCode(2 * time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no authorization code")
}

func TestCallbackServer_WaitTimeout(t *testing.T) {
	srv := startServer(t, "")

	_, err := srv.WaitForCode(50 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
