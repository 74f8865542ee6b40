package session

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "jobtrack"

// tokenKey is the fixed name the bearer token is stored under.
const tokenKey = "api-token"

// Store holds the authentication token in durable credential storage.
// Its presence or absence decides which view tree the shell renders;
// no expiry check is performed client-side.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the system keyring, falling back to an
// encrypted file under ~/.config/jobtrack/credentials.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/jobtrack/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("jobtrack-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// NewWithRing returns a Store backed by the given keyring. Used by tests.
func NewWithRing(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Token returns the persisted token, if any.
func (s *Store) Token() (string, bool) {
	item, err := s.ring.Get(tokenKey)
	if err != nil || len(item.Data) == 0 {
		return "", false
	}
	return string(item.Data), true
}

// Login persists the token, making it the active credential for all
// subsequent API calls.
func (s *Store) Login(token string) error {
	err := s.ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("storing session token: %w", err)
	}
	return nil
}

// Logout removes the persisted token. Removing an absent token is not
// an error.
func (s *Store) Logout() error {
	err := s.ring.Remove(tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("clearing session token: %w", err)
	}
	return nil
}
