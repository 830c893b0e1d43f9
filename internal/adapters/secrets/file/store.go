package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/bnema/x-analytics-cli/internal/ports"
	"github.com/spf13/afero"
)

const (
	storeDirMode   = 0o700
	secretFileMode = 0o600
)

// Store keeps one secret per file below root. Keys map to relative paths.
type Store struct {
	fs   afero.Fs
	root string
	mu   sync.RWMutex
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return NewStoreWithFs(afero.NewOsFs(), root)
}

func NewStoreWithFs(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: filepath.Clean(root)}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, storeDirMode); err != nil {
		return fmt.Errorf("create file secret directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".secret-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file secret %q: %w", key, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = s.fs.Remove(tmpPath) }

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write file secret %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close file secret %q: %w", key, err)
	}
	if err := s.fs.Chmod(tmpPath, secretFileMode); err != nil {
		cleanup()
		return fmt.Errorf("chmod file secret %q: %w", key, err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replace file secret %q: %w", key, err)
	}

	return nil
}

// Get returns the stored value without its trailing newline. A missing key
// wraps domain.ErrSecretNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("file secret %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", fmt.Errorf("read file secret %q: %w", key, err)
	}

	return strings.TrimRight(string(data), "\r\n"), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.fs.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file secret %q: %w", key, err)
	}

	return nil
}

func (s *Store) pathForKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("secret key is empty")
	}

	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || cleaned == "." {
		return "", fmt.Errorf("invalid secret key %q", key)
	}

	return filepath.Join(s.root, cleaned), nil
}
