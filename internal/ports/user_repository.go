package ports

import (
	"context"
	"time"

	"github.com/bnema/parent-portal/internal/domain"
)

// UserRecord is a registered parent as the local identity backend stores it.
type UserRecord struct {
	User         domain.User
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository looks users up by normalized (lower-cased) email. Lookups
// fail with domain.ErrUserNotFound; Create fails with domain.ErrUserExists
// when the email is taken.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (UserRecord, error)
	FindByID(ctx context.Context, id domain.UserID) (UserRecord, error)
	Create(ctx context.Context, record UserRecord) error
	Update(ctx context.Context, record UserRecord) error
}
