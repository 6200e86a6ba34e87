package ports

import (
	"context"

	"github.com/bnema/parent-portal/internal/domain"
)

// PersistedSession is the durable part of an authenticated session.
type PersistedSession struct {
	User  domain.User
	Child *domain.ChildProfile
	Token string
}

type SessionRepository interface {
	Load(ctx context.Context) (PersistedSession, error)
	Save(ctx context.Context, session PersistedSession) error
	Clear(ctx context.Context) error
}
