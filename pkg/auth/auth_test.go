package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "socialpulse/pkg/errors"
)

func newFileStore(t *testing.T) *EncryptedFileStore {
	t.Helper()
	t.Setenv("SOCIALPULSE_PASSPHRASE", "test-passphrase")
	store, err := NewEncryptedFileStore(filepath.Join(t.TempDir(), "credentials.enc"))
	require.NoError(t, err)
	return store
}

func TestEncryptedFileStoreRoundTrip(t *testing.T) {
	store := newFileStore(t)

	require.NoError(t, store.Store(&Credential{Platform: "instagram", APIKey: "rapid-key-1"}))
	require.NoError(t, store.Store(&Credential{Platform: "youtube", APIKey: "google-key"}))

	cred, err := store.Retrieve("instagram")
	require.NoError(t, err)
	assert.Equal(t, "rapid-key-1", cred.APIKey)

	// Overwrite keeps one credential per platform.
	require.NoError(t, store.Store(&Credential{Platform: "instagram", APIKey: "rapid-key-2"}))
	cred, err = store.Retrieve("instagram")
	require.NoError(t, err)
	assert.Equal(t, "rapid-key-2", cred.APIKey)

	assert.True(t, store.Exists("youtube"))
	assert.False(t, store.Exists("tiktok"))
}

func TestEncryptedFileStoreDelete(t *testing.T) {
	store := newFileStore(t)

	require.NoError(t, store.Store(&Credential{Platform: "twitter", APIKey: "key"}))
	require.NoError(t, store.Delete("twitter"))

	_, err := store.Retrieve("twitter")
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	assert.ErrorIs(t, store.Delete("twitter"), ErrCredentialNotFound)
}

func TestEncryptedFileStoreRejectsWrongPassphrase(t *testing.T) {
	t.Setenv("SOCIALPULSE_PASSPHRASE", "first")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Credential{Platform: "tiktok", APIKey: "secret"}))

	t.Setenv("SOCIALPULSE_PASSPHRASE", "second")
	other, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	_, err = other.Retrieve("tiktok")
	assert.Error(t, err)
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("TWITTER_API_KEY", "env-key")

	store := NewEnvironmentStore()

	cred, err := store.Retrieve("twitter")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cred.APIKey)
	assert.True(t, store.Exists("twitter"))

	t.Setenv("INSTAGRAM_API_KEY", "")
	_, err = store.Retrieve("instagram")
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	assert.ErrorIs(t, store.Store(&Credential{Platform: "twitter", APIKey: "x"}), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("twitter"), ErrStoreUnavailable)
}

func TestManagerResolutionOrder(t *testing.T) {
	fileStore := newFileStore(t)
	require.NoError(t, fileStore.Store(&Credential{Platform: "instagram", APIKey: "file-key"}))

	t.Setenv("INSTAGRAM_API_KEY", "env-key")

	manager := NewManagerWithStores(fileStore, NewEnvironmentStore())

	// The first store in the chain wins.
	key, err := manager.APIKey("instagram")
	require.NoError(t, err)
	assert.Equal(t, "file-key", key)

	// Fall through to the environment when the file has nothing.
	t.Setenv("TIKTOK_API_KEY", "env-tiktok")
	key, err = manager.APIKey("tiktok")
	require.NoError(t, err)
	assert.Equal(t, "env-tiktok", key)
}

func TestManagerMissingKeyIsAuthError(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")
	manager := NewManagerWithStores(NewEnvironmentStore())

	_, err := manager.APIKey("youtube")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindAuth))
	assert.Contains(t, err.Error(), "YOUTUBE_API_KEY")
}

func TestManagerStoreValidation(t *testing.T) {
	manager := NewManagerWithStores(newFileStore(t))

	assert.Error(t, manager.Store(&Credential{APIKey: "x"}))
	assert.Error(t, manager.Store(&Credential{Platform: "instagram"}))
	assert.NoError(t, manager.Store(&Credential{Platform: "instagram", APIKey: "x"}))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "********", MaskKey("short"))
	assert.Equal(t, "abcd...wxyz", MaskKey("abcdefghijklmnopqrstuvwxyz"))
}
