package ports

import (
	"context"

	"github.com/bnema/x-analytics-cli/internal/domain"
)

type SessionRepository interface {
	Get(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}
