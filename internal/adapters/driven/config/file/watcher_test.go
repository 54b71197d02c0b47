package file

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_NotifiesOnRewrite(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.SetAll(map[string]any{KeyAccessToken: "at1"}))

	w, err := NewWatcher(store.Path())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, store.SetAll(map[string]any{KeyAccessToken: "at2"}))

	select {
	case _, ok := <-w.Events():
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification after credential rewrite")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	w, err := NewWatcher(store.Path())
	require.NoError(t, err)
	defer w.Close()

	other, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, other.SetAll(map[string]any{KeyAccessToken: "elsewhere"}))

	select {
	case <-w.Events():
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CloseEndsEvents(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	w, err := NewWatcher(store.Path())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events():
		require.False(t, ok, "events channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("events channel not closed")
	}
}
