package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gateKey = "gate/password_sha256"

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStoreWithFs(afero.NewMemMapFs(), "/secrets")
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "secret key is empty"},
		{name: "whitespace", key: "   ", wantErr: "secret key is empty"},
		{name: "absolute", key: "/absolute/path", wantErr: "invalid secret key"},
		{name: "parent", key: "..", wantErr: "invalid secret key"},
		{name: "traversal", key: "../escape", wantErr: "invalid secret key"},
		{name: "nested traversal", key: "gate/../../secret", wantErr: "invalid secret key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Put(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStorePutGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	want := "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"

	require.NoError(t, store.Put(context.Background(), gateKey, want))

	got, err := store.Get(context.Background(), gateKey)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(filepath.Join(root, gateKey))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(secretFileMode), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Join(root, "gate"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStorePutOverwritesExistingValue(t *testing.T) {
	t.Parallel()

	store := NewStoreWithFs(afero.NewMemMapFs(), "/secrets")

	require.NoError(t, store.Put(context.Background(), gateKey, "first"))
	require.NoError(t, store.Put(context.Background(), gateKey, "second"))

	got, err := store.Get(context.Background(), gateKey)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestStoreGetTrimsTrailingNewline(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/secrets/gate/password_sha256", []byte("abc123\n"), secretFileMode))

	got, err := NewStoreWithFs(fs, "/secrets").Get(context.Background(), gateKey)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
}

func TestStoreGetMissingSecretIsNotFound(t *testing.T) {
	t.Parallel()

	store := NewStoreWithFs(afero.NewMemMapFs(), "/secrets")

	_, err := store.Get(context.Background(), gateKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteIsIdempotentWhenSecretMissing(t *testing.T) {
	t.Parallel()

	store := NewStoreWithFs(afero.NewMemMapFs(), "/secrets")
	require.NoError(t, store.Put(context.Background(), gateKey, "value"))

	require.NoError(t, store.Delete(context.Background(), gateKey))
	require.NoError(t, store.Delete(context.Background(), gateKey))

	_, err := store.Get(context.Background(), gateKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStoreWithFs(afero.NewMemMapFs(), "/secrets")
	require.ErrorIs(t, store.Put(ctx, gateKey, "value"), context.Canceled)
	_, err := store.Get(ctx, gateKey)
	require.ErrorIs(t, err, context.Canceled)
}
