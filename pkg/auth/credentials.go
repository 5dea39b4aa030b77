package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	errs "socialpulse/pkg/errors"
)

// Credential is one platform's opaque pre-issued API key.
type Credential struct {
	Platform     string    `json:"platform"`
	APIKey       string    `json:"api_key"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving API keys.
type CredentialStore interface {
	// Store saves the credential for a platform
	Store(cred *Credential) error

	// Retrieve gets the credential for a platform
	Retrieve(platform string) (*Credential, error)

	// Delete removes the credential for a platform
	Delete(platform string) error

	// Exists checks if a credential exists for a platform
	Exists(platform string) bool
}

// Manager resolves API keys through a chain of stores. Resolution is lazy:
// a missing key only surfaces when the platform is actually used.
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a credential manager with the available backends:
// system keychain, encrypted file, then environment variables.
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores builds a manager over an explicit store chain.
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// APIKey resolves the key for a platform. A miss is an auth error: fatal for
// that platform's remaining work in a run, invisible to the others.
func (m *Manager) APIKey(platform string) (string, error) {
	for _, store := range m.stores {
		if cred, err := store.Retrieve(platform); err == nil && cred != nil && cred.APIKey != "" {
			return cred.APIKey, nil
		}
	}
	return "", errs.Auth(platform, "no API key configured (set %s)", EnvVarFor(platform))
}

// Store saves a credential using the first store that accepts it.
func (m *Manager) Store(cred *Credential) error {
	if cred.Platform == "" {
		return errors.New("platform is required")
	}
	if cred.APIKey == "" {
		return errors.New("API key is required")
	}

	cred.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(cred); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credential: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Delete removes a platform's credential from all stores.
func (m *Manager) Delete(platform string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(platform); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credential: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("credential not found for platform: %s", platform)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "socialpulse")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "socialpulse")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "socialpulse")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "socialpulse")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// MaskKey masks all but the first 4 and last 4 characters of a key.
func MaskKey(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
)
