package stub

import (
	"context"
	"strings"
	"time"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/google/uuid"
)

const DefaultDelay = time.Second

const defaultDisplayName = "Parent User"

// Provider accepts any well-formed credentials after a fixed delay. It stands
// in for the school backend while none exists.
type Provider struct {
	delay    time.Duration
	newToken func() string
}

var (
	_ ports.IdentityProvider = (*Provider)(nil)
	_ ports.PasswordChanger  = (*Provider)(nil)
	_ ports.ProfileUpdater   = (*Provider)(nil)
)

func New(delay time.Duration) *Provider {
	if delay < 0 {
		delay = 0
	}

	return &Provider{delay: delay, newToken: uuid.NewString}
}

func (p *Provider) Authenticate(ctx context.Context, email, _ string) (ports.Identity, error) {
	if err := p.wait(ctx); err != nil {
		return ports.Identity{}, err
	}

	return p.identity(email, defaultDisplayName), nil
}

func (p *Provider) Register(ctx context.Context, email, _ string, name string) (ports.Identity, error) {
	if err := p.wait(ctx); err != nil {
		return ports.Identity{}, err
	}

	if strings.TrimSpace(name) == "" {
		name = defaultDisplayName
	}
	return p.identity(email, name), nil
}

func (p *Provider) ChangePassword(ctx context.Context, _ domain.UserID, _, _ string) error {
	return p.wait(ctx)
}

func (p *Provider) UpdateProfile(ctx context.Context, _ domain.User) error {
	return p.wait(ctx)
}

// identity derives a stable user id from the email so repeated stub logins
// land on the same parent.
func (p *Provider) identity(email, name string) ports.Identity {
	normalized := strings.ToLower(strings.TrimSpace(email))

	return ports.Identity{
		User: domain.User{
			ID:    domain.UserID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+normalized)).String()),
			Name:  name,
			Email: normalized,
		},
		Token: p.newToken(),
	}
}

func (p *Provider) wait(ctx context.Context) error {
	if p.delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
