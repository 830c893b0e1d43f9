package application

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/bnema/x-analytics-cli/internal/ports"
)

const (
	DefaultSessionTTL = time.Hour
	PasswordSecretKey = "gate/password_sha256"
)

var errEmptyPassword = errors.New("password is empty")

// Gate is the shared-secret login in front of the dashboard. It stores only a
// SHA-256 hex digest of the password and a timestamped session flag.
type Gate struct {
	secrets      ports.SecretStore
	sessions     ports.SessionRepository
	clock        ports.Clock
	ttl          time.Duration
	fallbackHash string
}

func NewGate(secrets ports.SecretStore, sessions ports.SessionRepository, clock ports.Clock, ttl time.Duration, fallbackHash string) *Gate {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Gate{
		secrets:      secrets,
		sessions:     sessions,
		clock:        clock,
		ttl:          ttl,
		fallbackHash: normalizeHash(fallbackHash),
	}
}

func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (g *Gate) Configured(ctx context.Context) (bool, error) {
	_, err := g.passwordHash(ctx)
	if errors.Is(err, domain.ErrGateNotConfigured) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetPassword stores the digest of password and drops any open session.
func (g *Gate) SetPassword(ctx context.Context, password string) error {
	if password == "" {
		return errEmptyPassword
	}

	if err := g.secrets.Put(ctx, PasswordSecretKey, HashPassword(password)); err != nil {
		return fmt.Errorf("store password hash: %w", err)
	}

	if err := g.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	return nil
}

func (g *Gate) Login(ctx context.Context, password string) error {
	want, err := g.passwordHash(ctx)
	if err != nil {
		return err
	}

	got := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return domain.ErrInvalidPassword
	}

	session := domain.Session{Authenticated: true, CreatedAt: g.clock.Now()}
	if err := g.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// Check passes when the gate is not configured or the session is still valid.
func (g *Gate) Check(ctx context.Context) error {
	configured, err := g.Configured(ctx)
	if err != nil {
		return err
	}
	if !configured {
		return nil
	}

	session, err := g.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrSessionExpired
		}
		return fmt.Errorf("load session: %w", err)
	}

	if !session.IsValid(g.clock.Now(), g.ttl) {
		return domain.ErrSessionExpired
	}

	return nil
}

// Session returns the stored session, if any.
func (g *Gate) Session(ctx context.Context) (domain.Session, error) {
	return g.sessions.Get(ctx)
}

func (g *Gate) TTL() time.Duration {
	return g.ttl
}

func (g *Gate) Logout(ctx context.Context) error {
	if err := g.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (g *Gate) passwordHash(ctx context.Context) (string, error) {
	stored, err := g.secrets.Get(ctx, PasswordSecretKey)
	switch {
	case err == nil:
		if hash := normalizeHash(stored); hash != "" {
			return hash, nil
		}
	case !errors.Is(err, domain.ErrSecretNotFound):
		return "", fmt.Errorf("load password hash: %w", err)
	}

	if g.fallbackHash != "" {
		return g.fallbackHash, nil
	}

	return "", domain.ErrGateNotConfigured
}

func normalizeHash(hash string) string {
	return strings.ToLower(strings.TrimSpace(hash))
}
