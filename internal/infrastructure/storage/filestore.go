// Package storage persists session credentials between runs. Token and user
// are written in one document and removed together, so a partial session can
// never be rehydrated.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ecommerceapp/storefront/internal/core/domain"
	"github.com/ecommerceapp/storefront/internal/core/ports"
)

// FileStore keeps the credential document in a single JSON file, written
// atomically via a temp file and rename so a crash mid-write never leaves a
// torn session on disk.
type FileStore struct {
	path string
}

type credentialDoc struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

var _ ports.CredentialStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the stored token and user. A missing file means no session and
// is not an error; a corrupt file is.
func (f *FileStore) Load() (string, *domain.User, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("load credentials: %w", err)
	}

	var doc credentialDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("load credentials: %w", err)
	}
	return doc.Token, doc.User, nil
}

// Save writes token and user together.
func (f *FileStore) Save(token string, user *domain.User) error {
	data, err := json.Marshal(credentialDoc{Token: token, User: user})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Clear removes the credential document. Clearing an absent document is a
// no-op.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
