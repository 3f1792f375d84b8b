package wallet

import (
	"errors"
	"fmt"
	"os"
)

// FileCredentialStore persists the wallet export blob to a single flat file.
type FileCredentialStore struct {
	path string
}

func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

// Load implements CredentialStore. A missing file is not an error:
// first run has nothing to restore.
func (s *FileCredentialStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}
	return data, nil
}

// Save implements CredentialStore.
func (s *FileCredentialStore) Save(data []byte) error {
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}
