package local

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Provider authenticates against a local registry of bcrypt-hashed
// passwords.
type Provider struct {
	users    ports.UserRepository
	clock    ports.Clock
	cost     int
	newID    func() string
	newToken func() string
	log      zerolog.Logger

	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

var (
	_ ports.IdentityProvider = (*Provider)(nil)
	_ ports.PasswordChanger  = (*Provider)(nil)
	_ ports.ProfileUpdater   = (*Provider)(nil)
)

type Option func(*Provider)

// WithCost overrides the bcrypt work factor; tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(p *Provider) {
		p.cost = cost
	}
}

func WithClock(clock ports.Clock) Option {
	return func(p *Provider) {
		p.clock = clock
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Provider) {
		p.log = log.With().Str("component", "identity.local").Logger()
	}
}

func New(users ports.UserRepository, opts ...Option) (*Provider, error) {
	if users == nil {
		return nil, errors.New("user repository is nil")
	}

	p := &Provider{
		users:    users,
		clock:    ports.SystemClock{},
		cost:     bcrypt.DefaultCost,
		newID:    uuid.NewString,
		newToken: uuid.NewString,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), p.cost)
	if err != nil {
		return nil, fmt.Errorf("prepare password hasher: %w", err)
	}
	p.dummyHash = dummy

	return p, nil
}

func (p *Provider) Authenticate(ctx context.Context, email, password string) (ports.Identity, error) {
	record, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return ports.Identity{}, fmt.Errorf("look up user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(password))
		p.log.Debug().Msg("authenticate: unknown email")
		return ports.Identity{}, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		p.log.Debug().Str("user", string(record.User.ID)).Msg("authenticate: password mismatch")
		return ports.Identity{}, domain.ErrInvalidCredentials
	}

	return ports.Identity{User: record.User, Token: p.newToken()}, nil
}

func (p *Provider) Register(ctx context.Context, email, password, name string) (ports.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: hash password: %w", domain.ErrRegistration, err)
	}

	record := ports.UserRecord{
		User: domain.User{
			ID:    domain.UserID(p.newID()),
			Name:  strings.TrimSpace(name),
			Email: strings.ToLower(strings.TrimSpace(email)),
		},
		PasswordHash: string(hash),
		CreatedAt:    p.clock.Now(),
	}
	if err := p.users.Create(ctx, record); err != nil {
		return ports.Identity{}, fmt.Errorf("%w: %w", domain.ErrRegistration, err)
	}

	p.log.Info().Str("user", string(record.User.ID)).Msg("registered parent")
	return ports.Identity{User: record.User, Token: p.newToken()}, nil
}

func (p *Provider) ChangePassword(ctx context.Context, userID domain.UserID, current, next string) error {
	record, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(current)); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), p.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	record.PasswordHash = string(hash)

	return p.users.Update(ctx, record)
}

func (p *Provider) UpdateProfile(ctx context.Context, user domain.User) error {
	record, err := p.users.FindByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}

	record.User.Name = user.Name
	record.User.Email = strings.ToLower(strings.TrimSpace(user.Email))
	record.User.Phone = user.Phone
	record.User.Avatar = user.Avatar

	return p.users.Update(ctx, record)
}
