package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Configuration keys on the shared surface. The identity keys are written
// by the operator; the token keys are owned by the lifecycle manager.
const (
	KeyClientID     = "client_id"
	KeyClientSecret = "client_secret"
	KeyRedirectURI  = "redirect_uri"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyTriggerTime  = "trigger_time"
)

// Store is a TOML-backed key/value store. Keys are flat; unknown keys are
// preserved verbatim across saves so operator-managed entries survive
// token rewrites.
type Store struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewStore creates a TOML-based store.
// If configDir is empty, defaults to ~/.brokerauth/config.toml.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".brokerauth")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &Store{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload reads the TOML file from disk, replacing in-memory state.
// A missing file is not an error; the store starts empty.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload()
}

// reload reads the file (caller must hold lock).
func (s *Store) reload() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	if loaded == nil {
		loaded = make(map[string]any)
	}
	s.data = loaded
	return nil
}

// GetString retrieves a string value. Returns empty string if the key is
// absent or not a string.
func (s *Store) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	str, _ := s.data[key].(string)
	return str
}

// SetAll stores the given values and persists immediately. Existing keys
// not named in values are preserved.
func (s *Store) SetAll(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Pick up operator edits made since the last read so they are not
	// clobbered by the rewrite.
	if err := s.reload(); err != nil {
		return err
	}
	for key, value := range values {
		s.data[key] = value
	}
	return s.save()
}

// save writes the TOML file atomically (caller must hold lock). The file
// is written to a temp path in the same directory and renamed into place
// so concurrent readers see either the old or the new contents, never a
// partial write.
func (s *Store) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.filePath)
	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	// Restrict permissions before the file becomes visible.
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, s.filePath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.filePath
}
