package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultSecretService = "tally"
	defaultSecretUser    = "db_key"
)

// ErrNoKey is returned when no database key has been stored yet.
var ErrNoKey = errors.New("db key not found")

var (
	keyringGet    = keyring.Get
	keyringSet    = keyring.Set
	keyringDelete = keyring.Delete
)

// LoadDBKey loads the database encryption key.
//
// Order of precedence:
// 1) TALLY_DB_KEY environment variable.
// 2) System keyring item referenced by service/account.
func LoadDBKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("TALLY_DB_KEY")); key != "" {
		return key, nil
	}

	service, account := keyringItem()
	secret, err := keyringGet(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoKey
	}
	if err != nil {
		return "", fmt.Errorf(
			"failed to read keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}

	key := strings.TrimSpace(secret)
	if key == "" {
		return "", ErrNoKey
	}
	return key, nil
}

// SaveDBKey stores the database key in the system credential store.
func SaveDBKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.New("db key cannot be empty")
	}

	service, account := keyringItem()
	if err := keyringSet(service, account, trimmed); err != nil {
		return fmt.Errorf(
			"failed to store keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

// DeleteDBKey removes the stored key. Deleting a key that was never stored
// is not an error.
func DeleteDBKey() error {
	service, account := keyringItem()
	if err := keyringDelete(service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf(
			"failed to delete keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

func keyringItem() (service, account string) {
	return envOrDefault("TALLY_KEYCHAIN_SERVICE", defaultSecretService),
		envOrDefault("TALLY_KEYCHAIN_ACCOUNT", defaultSecretUser)
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
