package google

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
)

// TokenStore persists a single OAuth token record on disk as JSON.
//
// Save overwrites atomically (write to a temp file, then rename) so a
// concurrent reader never observes a partially written token. There is
// no merge: save always wins.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store at the given path. An empty path
// selects the default location under the XDG data directory.
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = filepath.Join(xdg.DataHome, "gmail-dashboard", "token.json")
	}
	return &TokenStore{path: path}
}

// Path returns the token file location.
func (s *TokenStore) Path() string {
	return s.path
}

// IsAuthorized reports whether a token record is currently persisted.
func (s *TokenStore) IsAuthorized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the persisted token. When no token exists it fails with
// ErrNotAuthorized.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotAuthorized
		}
		return nil, fmt.Errorf("failed to read token file %s: %w", s.path, err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", s.path, err)
	}
	return &tok, nil
}

// Save persists the token, overwriting any previous record. The write
// goes to a temp file in the same directory followed by a rename.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory %s: %w", dir, err)
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "token-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set token file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close token file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace token file %s: %w", s.path, err)
	}
	return nil
}
