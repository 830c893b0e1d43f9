package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/bnema/x-analytics-cli/internal/ports"
	"github.com/bnema/x-analytics-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var gateNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

func missingSecret() error {
	return fmt.Errorf("file secret %q: %w", PasswordSecretKey, domain.ErrSecretNotFound)
}

func TestHashPassword(t *testing.T) {
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", HashPassword("password"))
}

func TestGateCheckPassesWhenNotConfigured(t *testing.T) {
	secrets := mocks.NewMockSecretStore(t)
	sessions := mocks.NewMockSessionRepository(t)
	gate := NewGate(secrets, sessions, ports.FixedClock(gateNow), DefaultSessionTTL, "")

	secrets.EXPECT().Get(mockAnyContext(), PasswordSecretKey).Return("", missingSecret())

	require.NoError(t, gate.Check(context.Background()))
}

func TestGateLoginWithoutPasswordConfigured(t *testing.T) {
	secrets := mocks.NewMockSecretStore(t)
	sessions := mocks.NewMockSessionRepository(t)
	gate := NewGate(secrets, sessions, ports.FixedClock(gateNow), DefaultSessionTTL, "")

	secrets.EXPECT().Get(mockAnyContext(), PasswordSecretKey).Return("", missingSecret())

	err := gate.Login(context.Background(), "anything")
	require.ErrorIs(t, err, domain.ErrGateNotConfigured)
}

func TestGateLoginSavesTimestampedSession(t *testing.T) {
	secrets := mocks.NewMockSecretStore(t)
	sessions := mocks.NewMockSessionRepository(t)
	clock := mocks.NewMockClock(t)
	gate := NewGate(secrets, sessions, clock, DefaultSessionTTL, "")

	secrets.EXPECT().Get(mockAnyContext(), PasswordSecretKey).Return(HashPassword("hunter2"), nil).Once()
	clock.EXPECT().Now().Return(gateNow).Once()
	sessions.EXPECT().Save(mockAnyContext(), domain.Session{Authenticated: true, CreatedAt: gateNow}).Return(nil).Once()

	require.NoError(t, gate.Login(context.Background(), "hunter2"))
}

func TestGateLoginRejectsWrongPassword(t *testing.T) {
	secrets := mocks.NewMockSecretStore(t)
	sessions := mocks.NewMockSessionRepository(t)
	gate := NewGate(secrets, sessions, ports.FixedClock(gateNow), DefaultSessionTTL, "")

	secrets.EXPECT().Get(mockAnyContext(), PasswordSecretKey).Return(HashPassword("hunter2"), nil).Once()

	err := gate.Login(context.Background(), "hunter3")
	require.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestGateLoginUsesConfiguredFallbackHash(t *testing.T) {
	secrets := mocks.NewMockSecretStore(t)
	sessions := mocks.NewMockSessionRepository(t)
	fallback := "  " + strings.ToUpper(HashPassword("from-config")) + "\n"
	gate := NewGate(secrets, sessions, ports.FixedClock(gateNow), DefaultSessionTTL, fallback)

	secrets.EXPECT().Get(mockAnyContext(), PasswordSecretKey).Return("", missingSecret()).Once()
	sessions.EXPECT().Save(mockAnyContext(), domain.Session{Authenticated: true, CreatedAt: gateNow}).Return(nil).Once()

	require.NoError(t, gate.Login(context.Background(), "from-config"))
}

func TestGateCheckSessionStates(t *testing.T) {
	tests := []struct {
		name    string
		session domain.Session
		getErr  error
		wantErr error
	}{
		{name: "fresh session", session: domain.Session{Authenticated: true, CreatedAt: gateNow.Add(-10 * time.Minute)}},
		{name: "expired session", session: domain.Session{Authenticated: true, CreatedAt: gateNow.Add(-2 * time.Hour)}, wantErr: domain.ErrSessionExpired},
		{name: "unauthenticated flag", session: domain.Session{CreatedAt: gateNow}, wantErr: domain.ErrSessionExpired},
		{name: "no session", getErr: domain.ErrSessionNotFound, wantErr: domain.ErrSessionExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secrets := mocks.NewMockSecretStore(t)
			sessions := mocks.NewMockSessionRepository(t)
			gate := NewGate(secrets, sessions, ports.FixedClock(gateNow), DefaultSessionTTL, "")

			secrets.EXPECT().Get(mockAnyContext(), PasswordSecretKey).Return(HashPassword("pw"), nil).Once()
			sessions.EXPECT().Get(mockAnyContext()).Return(tt.session, tt.getErr).Once()

			err := gate.Check(context.Background())
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGateCheckPropagatesStoreFailure(t *testing.T) {
	secrets := mocks.NewMockSecretStore(t)
	sessions := mocks.NewMockSessionRepository(t)
	gate := NewGate(secrets, sessions, ports.FixedClock(gateNow), DefaultSessionTTL, "")

	storeErr := errors.New("permission denied")
	secrets.EXPECT().Get(mockAnyContext(), PasswordSecretKey).Return("", storeErr).Once()

	err := gate.Check(context.Background())
	require.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "load password hash")
}

func TestGateSetPasswordStoresHashAndDropsSession(t *testing.T) {
	secrets := mocks.NewMockSecretStore(t)
	sessions := mocks.NewMockSessionRepository(t)
	gate := NewGate(secrets, sessions, ports.FixedClock(gateNow), DefaultSessionTTL, "")

	secrets.EXPECT().Put(mockAnyContext(), PasswordSecretKey, HashPassword("s3cret")).Return(nil).Once()
	sessions.EXPECT().Clear(mockAnyContext()).Return(nil).Once()

	require.NoError(t, gate.SetPassword(context.Background(), "s3cret"))
}

func TestGateSetPasswordRejectsEmpty(t *testing.T) {
	gate := NewGate(mocks.NewMockSecretStore(t), mocks.NewMockSessionRepository(t), nil, DefaultSessionTTL, "")

	require.Error(t, gate.SetPassword(context.Background(), ""))
}

func TestGateLogoutClearsSession(t *testing.T) {
	secrets := mocks.NewMockSecretStore(t)
	sessions := mocks.NewMockSessionRepository(t)
	gate := NewGate(secrets, sessions, ports.FixedClock(gateNow), DefaultSessionTTL, "")

	clearErr := errors.New("disk full")
	sessions.EXPECT().Clear(mockAnyContext()).Return(nil).Once()
	require.NoError(t, gate.Logout(context.Background()))

	sessions.EXPECT().Clear(mockAnyContext()).Return(clearErr).Once()
	require.ErrorIs(t, gate.Logout(context.Background()), clearErr)
}
