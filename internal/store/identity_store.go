package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"styrby/internal/domain"
)

const identityFile = "identity.enc"

// IdentityFileStore persists the device identity encrypted with a
// passphrase-derived key.
type IdentityFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir}
}

// SaveIdentity seals the identity and writes it to disk.
func (s *IdentityFileStore) SaveIdentity(passphrase string, id domain.DeviceIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	sealed, err := sealSecret(passphrase, raw)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, identityFile), sealed, 0o600)
}

// LoadIdentity reads and decrypts the identity.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (domain.DeviceIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := os.ReadFile(filepath.Join(s.dir, identityFile))
	if err != nil {
		return domain.DeviceIdentity{}, err
	}
	raw, err := openSecret(passphrase, sealed)
	if err != nil {
		return domain.DeviceIdentity{}, err
	}
	var id domain.DeviceIdentity
	if err := json.Unmarshal(raw, &id); err != nil {
		return domain.DeviceIdentity{}, err
	}
	return id, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
