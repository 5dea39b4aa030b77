package auth

import (
	"os"
	"strings"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables,
// one opaque key per platform.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// EnvVarFor returns the environment variable carrying a platform's API key.
func EnvVarFor(platform string) string {
	return strings.ToUpper(platform) + "_API_KEY"
}

// Store is not supported for environment variables.
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets a platform key from its environment variable.
func (e *EnvironmentStore) Retrieve(platform string) (*Credential, error) {
	if platform == "" {
		return nil, ErrInvalidCredential
	}

	key := os.Getenv(EnvVarFor(platform))
	if key == "" {
		return nil, ErrCredentialNotFound
	}

	return &Credential{
		Platform:     platform,
		APIKey:       key,
		LastModified: time.Now(),
	}, nil
}

// Delete is not supported for environment variables.
func (e *EnvironmentStore) Delete(platform string) error {
	return ErrStoreUnavailable
}

// Exists checks if the platform's environment variable is set.
func (e *EnvironmentStore) Exists(platform string) bool {
	return os.Getenv(EnvVarFor(platform)) != ""
}
