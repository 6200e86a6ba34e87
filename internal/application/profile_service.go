package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
)

type ProfileService struct {
	session   *SessionStore
	profiles  ports.ProfileUpdater
	passwords ports.PasswordChanger
}

func NewProfileService(session *SessionStore, profiles ports.ProfileUpdater, passwords ports.PasswordChanger) *ProfileService {
	return &ProfileService{session: session, profiles: profiles, passwords: passwords}
}

func (s *ProfileService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.SessionState, error) {
	state := s.session.State()
	if !state.IsAuthenticated() {
		return state, fmt.Errorf("update profile: %w", domain.ErrPrecondition)
	}
	if err := domain.ValidateProfileUpdate(update); err != nil {
		return state, fmt.Errorf("update profile: %w", err)
	}

	user := *state.User
	user.Name = strings.TrimSpace(update.Name)
	user.Email = strings.TrimSpace(update.Email)
	user.Phone = strings.TrimSpace(update.Phone)

	if s.profiles != nil {
		if err := s.profiles.UpdateProfile(ctx, user); err != nil {
			return state, fmt.Errorf("update profile: %w", err)
		}
	}

	return s.session.replaceUser(ctx, user)
}

func (s *ProfileService) ChangePassword(ctx context.Context, current, next, confirmation string) error {
	state := s.session.State()
	if !state.IsAuthenticated() {
		return fmt.Errorf("change password: %w", domain.ErrPrecondition)
	}
	if err := domain.ValidatePasswordChange(current, next, confirmation); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if s.passwords == nil {
		return fmt.Errorf("change password: %w", domain.ErrUnsupported)
	}

	if err := s.passwords.ChangePassword(ctx, state.User.ID, current, next); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
