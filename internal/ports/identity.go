package ports

import (
	"context"

	"github.com/bnema/parent-portal/internal/domain"
)

// Identity is what the identity collaborator hands back on a successful
// authenticate or register call.
type Identity struct {
	User  domain.User
	Token string
}

// IdentityProvider resolves each call exactly once. Authenticate fails with
// domain.ErrInvalidCredentials, Register with domain.ErrRegistration.
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, password string) (Identity, error)
	Register(ctx context.Context, email, password, name string) (Identity, error)
}

type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID domain.UserID, current, next string) error
}

type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, user domain.User) error
}
