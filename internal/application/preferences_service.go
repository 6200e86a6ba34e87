package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/rs/zerolog"
)

// PreferencesService reads and updates the signed-in parent's settings.
// A parent who never saved anything sees domain.DefaultPreferences.
type PreferencesService struct {
	session *SessionStore
	repo    ports.PreferencesRepository
	log     zerolog.Logger
}

func NewPreferencesService(session *SessionStore, repo ports.PreferencesRepository, log zerolog.Logger) *PreferencesService {
	return &PreferencesService{
		session: session,
		repo:    repo,
		log:     log.With().Str("component", "preferences").Logger(),
	}
}

func (s *PreferencesService) Current(ctx context.Context) (domain.Preferences, error) {
	userID, err := s.userID("load preferences")
	if err != nil {
		return domain.Preferences{}, err
	}
	return s.load(ctx, userID)
}

func (s *PreferencesService) SetNotification(ctx context.Context, n domain.Notification, on bool) (domain.Preferences, error) {
	return s.update(ctx, "set notification", func(p domain.Preferences) domain.Preferences {
		return p.With(n, on)
	})
}

// SelectTerm remembers the term the performance view shows by default.
func (s *PreferencesService) SelectTerm(ctx context.Context, term domain.Term) (domain.Preferences, error) {
	return s.update(ctx, "select term", func(p domain.Preferences) domain.Preferences {
		p.Term = term
		return p
	})
}

// Reset restores the defaults and forgets the selected term.
func (s *PreferencesService) Reset(ctx context.Context) (domain.Preferences, error) {
	return s.update(ctx, "reset preferences", func(domain.Preferences) domain.Preferences {
		return domain.DefaultPreferences()
	})
}

func (s *PreferencesService) update(ctx context.Context, op string, change func(domain.Preferences) domain.Preferences) (domain.Preferences, error) {
	userID, err := s.userID(op)
	if err != nil {
		return domain.Preferences{}, err
	}

	current, err := s.load(ctx, userID)
	if err != nil {
		return domain.Preferences{}, err
	}

	next := change(current)
	if err := s.repo.Save(ctx, userID, next); err != nil {
		return current, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Debug().Str("user_id", string(userID)).Str("op", op).Msg("preferences saved")

	return next, nil
}

func (s *PreferencesService) load(ctx context.Context, userID domain.UserID) (domain.Preferences, error) {
	prefs, err := s.repo.Load(ctx, userID)
	if errors.Is(err, domain.ErrPreferencesNotFound) {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

func (s *PreferencesService) userID(op string) (domain.UserID, error) {
	state := s.session.State()
	if !state.IsAuthenticated() {
		return "", fmt.Errorf("%s: %w", op, domain.ErrPrecondition)
	}
	return state.User.ID, nil
}
