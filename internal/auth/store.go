package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/spotcli/internal/shared"
)

const (
	credentialsFileName = "tokens.json"
	credentialsDirMode  = 0o700
	credentialsFileMode = 0o600
)

// CredentialPair is the access and refresh token issued by a successful exchange.
type CredentialPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// CredentialStore persists a single [CredentialPair] as JSON on disk.
type CredentialStore struct {
	path string
	mu   sync.Mutex
}

// NewCredentialStore creates a store backed by the file at path. The file is not touched until use.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// DefaultCredentialsPath returns ~/.spotify-cli/tokens.json
func DefaultCredentialsPath() (string, error) {
	dir, err := shared.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credentialsFileName), nil
}

// Path returns the backing file path.
func (s *CredentialStore) Path() string {
	return s.path
}

// Save replaces the stored pair.
//
// The pair is written to a temporary file in the same directory and renamed over the old one, so readers
// see either the previous pair or the new one.
func (s *CredentialStore) Save(pair CredentialPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(pair, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, credentialsDirMode); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp credentials file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(credentialsFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set credentials file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}
	return nil
}

// Load reads the stored pair.
//
// A missing file or an empty access token is [shared.ErrNoCredentials].
func (s *CredentialStore) Load() (*CredentialPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoCredentials, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var pair CredentialPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidCredentials, s.path, err)
	}
	if pair.Access == "" {
		return nil, fmt.Errorf("%w: %s has no access token", shared.ErrNoCredentials, s.path)
	}
	return &pair, nil
}

// Clear removes the stored pair. Clearing an empty store is not an error.
func (s *CredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// Exists reports whether a usable pair is stored.
func (s *CredentialStore) Exists() bool {
	_, err := s.Load()
	return err == nil
}
