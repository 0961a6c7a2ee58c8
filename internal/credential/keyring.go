package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "iot-console"

// Well-known credential keys.
const (
	// KeyAccessToken is the slot holding the platform session token.
	KeyAccessToken = "access-token"

	// KeyMailboxPassword is the slot holding the alerts-mailbox password.
	KeyMailboxPassword = "mailbox-password"
)

// ErrNotFound is returned by Get when no value is stored under a key.
var ErrNotFound = errors.New("credential not found")

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
		FileDir:                  "~/.config/iot-console/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("iot-console-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
// Returns ErrNotFound when nothing is stored under the key.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring. Deleting
// a key that is not present is not an error.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// TokenSlot adapts the keyring access-token entry to the
// session.TokenSlot interface.
type TokenSlot struct{}

// Get returns the stored access token, or "" with no error when the
// slot is empty.
func (TokenSlot) Get() (string, error) {
	token, err := Get(KeyAccessToken)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}

// Set stores the access token.
func (TokenSlot) Set(token string) error {
	return Set(KeyAccessToken, token)
}

// Delete clears the access token slot.
func (TokenSlot) Delete() error {
	return Delete(KeyAccessToken)
}
