package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/x-analytics-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/x-analytics-cli/internal/adapters/secrets/pass"
	"github.com/bnema/x-analytics-cli/internal/ports"
)

// Store reads and writes through primary and falls back on any failure that is
// not a context cancellation.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

func NewPassFirstWithFileFallback(passPrefix string, fileRoot string) (*Store, error) {
	return NewStore(passstore.NewStore(passPrefix), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary put: %w; fallback put: %w", err, fallbackErr)
}

// Get wraps both backend errors when neither has the key, so
// domain.ErrSecretNotFound stays detectable.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return "", fmt.Errorf("primary get: %w; fallback get: %w", err, fallbackErr)
}

// Delete removes the key from both backends so a stale copy cannot shadow a
// later Put.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx, key)
	if err != nil && fallbackErr != nil {
		return fmt.Errorf("primary delete: %w; fallback delete: %w", err, fallbackErr)
	}

	return nil
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
