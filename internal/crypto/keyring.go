package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "tasktimer"
	KeyName     = "db-encryption-key"

	// EnvKey overrides the OS keyring, for hosts without a secret service
	EnvKey = "TASKTIMER_DB_KEY"
)

// ErrKeyNotFound is returned when no key is stored anywhere
var ErrKeyNotFound = errors.New("encryption key not found")

// NewKeyring returns the OS keyring with the environment variable as override
func NewKeyring() Keyring {
	return &systemKeyring{getenv: os.Getenv}
}

type systemKeyring struct {
	getenv func(string) string
}

// GetKey prefers the environment variable, then the OS keyring
func (k *systemKeyring) GetKey() (string, error) {
	if key := k.getenv(EnvKey); key != "" {
		return key, nil
	}

	key, err := keyring.Get(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to retrieve key from keyring: %w", err)
	}
	if key == "" {
		return "", errors.New("encryption key is empty")
	}
	return key, nil
}

// SetKey stores the encryption key in the OS keyring
func (k *systemKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(ServiceName, KeyName, password); err != nil {
		return fmt.Errorf("failed to store key in keyring (set %s instead): %w", EnvKey, err)
	}
	return nil
}

// DeleteKey removes the encryption key from the OS keyring. A key supplied
// through the environment cannot be removed from here.
func (k *systemKeyring) DeleteKey() error {
	err := keyring.Delete(ServiceName, KeyName)
	switch {
	case err == nil:
	case errors.Is(err, keyring.ErrNotFound):
		if k.getenv(EnvKey) == "" {
			return ErrKeyNotFound
		}
	default:
		return fmt.Errorf("failed to delete key from keyring: %w", err)
	}

	if k.getenv(EnvKey) != "" {
		return fmt.Errorf("unset the %s environment variable manually", EnvKey)
	}
	return nil
}

// IsAvailable reports whether a key can be stored or is already supplied
func (k *systemKeyring) IsAvailable() bool {
	if k.getenv(EnvKey) != "" {
		return true
	}

	testKey := "__tasktimer_availability_test__"
	if err := keyring.Set(ServiceName, testKey, "test"); err != nil {
		return false
	}
	_ = keyring.Delete(ServiceName, testKey)
	return true
}
