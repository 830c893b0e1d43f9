package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/x-analytics-cli/internal/domain"
	portmocks "github.com/bnema/x-analytics-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const gateKey = "gate/password_sha256"

func newChain(t *testing.T) (*Store, *portmocks.MockSecretStore, *portmocks.MockSecretStore) {
	t.Helper()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	return store, primary, fallback
}

func TestNewStoreRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStore(nil, portmocks.NewMockSecretStore(t))
	require.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStore(portmocks.NewMockSecretStore(t), nil)
	require.ErrorIs(t, err, errNilFallbackStore)
}

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	store, primary, _ := newChain(t)
	primary.EXPECT().Get(mock.Anything, gateKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), gateKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Get(mock.Anything, gateKey).Return("", errors.New("pass unavailable")).Once()
	fallback.EXPECT().Get(mock.Anything, gateKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), gateKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetKeepsNotFoundWhenBothMiss(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Get(mock.Anything, gateKey).Return("", errors.New("pass unavailable")).Once()
	fallback.EXPECT().Get(mock.Anything, gateKey).Return("", fmt.Errorf("file secret: %w", domain.ErrSecretNotFound)).Once()

	_, err := store.Get(context.Background(), gateKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "pass unavailable")
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Put(mock.Anything, gateKey, "digest").Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Put(mock.Anything, gateKey, "digest").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), gateKey, "digest"))
}

func TestStorePutReportsBothFailures(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	passErr := errors.New("pass failed")
	fileErr := errors.New("file failed")
	primary.EXPECT().Put(mock.Anything, gateKey, "digest").Return(passErr).Once()
	fallback.EXPECT().Put(mock.Anything, gateKey, "digest").Return(fileErr).Once()

	err := store.Put(context.Background(), gateKey, "digest")
	require.ErrorIs(t, err, passErr)
	require.ErrorIs(t, err, fileErr)
}

func TestStoreDeleteClearsBothBackends(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Delete(mock.Anything, gateKey).Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, gateKey).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), gateKey))
}

func TestStoreDeleteSucceedsWhenOneBackendWorks(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Delete(mock.Anything, gateKey).Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Delete(mock.Anything, gateKey).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), gateKey))
}

func TestStoreDoesNotFallbackOnCanceledContext(t *testing.T) {
	t.Parallel()

	store, primary, _ := newChain(t)
	primary.EXPECT().Get(mock.Anything, gateKey).Return("", context.Canceled).Once()
	primary.EXPECT().Delete(mock.Anything, gateKey).Return(context.DeadlineExceeded).Once()

	_, err := store.Get(context.Background(), gateKey)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Delete(context.Background(), gateKey), context.DeadlineExceeded)
}
