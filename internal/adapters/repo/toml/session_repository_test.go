package toml

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*SessionRepository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "state", "session.toml")
	config := viper.New()
	config.Set(SessionPathKey, path)

	repo, err := NewSessionRepository(config)
	require.NoError(t, err)
	return repo, path
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	created := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(context.Background(), domain.Session{Authenticated: true, CreatedAt: created}))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Session{Authenticated: true, CreatedAt: created}, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(sessionFileMode), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(sessionDirMode), dirInfo.Mode().Perm())
}

func TestSessionRepositoryWritesVersionedSchema(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	created := time.Date(2026, 2, 14, 13, 30, 0, 0, time.FixedZone("CET", 3600))

	require.NoError(t, repo.Save(context.Background(), domain.Session{Authenticated: true, CreatedAt: created}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "authenticated = true")
	assert.Contains(t, string(data), "created_at = '2026-02-14T12:30:00Z'")
}

func TestSessionRepositoryGetMissingFile(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	_, err := repo.Get(context.Background())
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepositoryClear(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	require.NoError(t, repo.Save(context.Background(), domain.Session{Authenticated: true, CreatedAt: time.Now()}))

	require.NoError(t, repo.Clear(context.Background()))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, repo.Clear(context.Background()))
}

func TestSessionRepositoryRejectsFutureSchemaVersion(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("version = 9\nauthenticated = true\n"), 0o600))

	_, err := repo.Get(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported session schema version 9")
}

func TestSessionRepositoryRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("authenticated = [oops"), 0o600))

	_, err := repo.Get(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode session file")
}

func TestSessionRepositoryUnparseableTimestampIsZero(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("version = 1\nauthenticated = true\ncreated_at = 'yesterday'\n"), 0o600))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Authenticated)
	assert.True(t, got.CreatedAt.IsZero())
	assert.False(t, got.IsValid(time.Now(), time.Hour))
}

func TestSessionRepositoriesSharePathLock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.toml")
	config := viper.New()
	config.Set(SessionPathKey, path)

	first, err := NewSessionRepository(config)
	require.NoError(t, err)
	second, err := NewSessionRepository(config)
	require.NoError(t, err)
	assert.Same(t, first.mu, second.mu)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			repo := first
			if i%2 == 1 {
				repo = second
			}
			assert.NoError(t, repo.Save(context.Background(), domain.Session{Authenticated: true, CreatedAt: time.Unix(int64(i), 0)}))
		}(i)
	}
	wg.Wait()

	got, err := first.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Authenticated)
}

func TestSessionRepositoryDefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	repo, err := NewSessionRepository(viper.New())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".xa", "session.toml"), repo.Path())
}
