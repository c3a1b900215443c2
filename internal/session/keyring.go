package session

import (
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "geo-reminder"
	tokenKey    = "session-token"
)

// TokenStore persists the signed-in user's session token across
// process restarts.
type TokenStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	ClearToken() error
}

// KeyringTokenStore stores the session token in the OS keyring.
type KeyringTokenStore struct{}

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/geo-reminder/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("geo-reminder-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// SaveToken stores the session token in the system keyring.
func (KeyringTokenStore) SaveToken(token string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("saving session token: %w", err)
	}

	return nil
}

// LoadToken retrieves the session token from the system keyring.
func (KeyringTokenStore) LoadToken() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		return "", fmt.Errorf("loading session token: %w", err)
	}

	return string(item.Data), nil
}

// ClearToken removes the session token from the system keyring.
func (KeyringTokenStore) ClearToken() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}

	return nil
}
