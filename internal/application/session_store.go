package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionStore is the single owner of the current identity. Login and Signup
// are the only operations that suspend; while one is in flight the store is
// Authenticating and rejects further attempts.
type SessionStore struct {
	identity ports.IdentityProvider
	repo     ports.SessionRepository
	log      zerolog.Logger
	newID    func() string

	mu            sync.Mutex
	state         domain.SessionState
	token         string
	pendingLogout bool
	subscribers   map[int]func(domain.SessionState)
	nextSubID     int
	outbox        []sessionEvent
	delivering    bool
}

// sessionEvent is one committed transition and the subscribers registered
// when it was committed.
type sessionEvent struct {
	state domain.SessionState
	subs  []func(domain.SessionState)
}

func NewSessionStore(identity ports.IdentityProvider, repo ports.SessionRepository, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		identity:    identity,
		repo:        repo,
		log:         log.With().Str("component", "session").Logger(),
		newID:       uuid.NewString,
		state:       domain.Anonymous(),
		subscribers: map[int]func(domain.SessionState){},
	}
}

func (s *SessionStore) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Subscribe registers fn for one call per committed transition. Callbacks run
// in commit order, after the store lock is released, and receive a copy of
// the new state. A transition committed while callbacks are running is
// delivered once they return.
func (s *SessionStore) Subscribe(fn func(domain.SessionState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Restore loads a persisted session, if any, into an Anonymous store.
func (s *SessionStore) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	persisted, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}
	if strings.TrimSpace(string(persisted.User.ID)) == "" {
		return nil
	}

	s.mu.Lock()
	if s.state.Status != domain.SessionAnonymous {
		s.mu.Unlock()
		return nil
	}
	s.token = persisted.Token
	s.commitLocked(domain.Authenticated(persisted.User, persisted.Child))
	s.mu.Unlock()

	s.deliver()
	return nil
}

func (s *SessionStore) Login(ctx context.Context, email, password string) (domain.SessionState, error) {
	if err := domain.ValidateLogin(email, password); err != nil {
		return s.State(), fmt.Errorf("login: %w", err)
	}

	return s.authenticate(ctx, "login", domain.ErrInvalidCredentials, func(ctx context.Context) (ports.Identity, error) {
		return s.identity.Authenticate(ctx, strings.TrimSpace(email), password)
	})
}

func (s *SessionStore) Signup(ctx context.Context, email, password, name string) (domain.SessionState, error) {
	if err := domain.ValidateSignup(email, password, name); err != nil {
		return s.State(), fmt.Errorf("signup: %w", err)
	}

	return s.authenticate(ctx, "signup", domain.ErrRegistration, func(ctx context.Context) (ports.Identity, error) {
		return s.identity.Register(ctx, strings.TrimSpace(email), password, strings.TrimSpace(name))
	})
}

func (s *SessionStore) authenticate(
	ctx context.Context,
	op string,
	failure error,
	call func(context.Context) (ports.Identity, error),
) (domain.SessionState, error) {
	s.mu.Lock()
	if s.state.Status == domain.SessionAuthenticating {
		current := s.state.Clone()
		s.mu.Unlock()
		s.log.Warn().Str("op", op).Msg("rejected concurrent authentication attempt")
		return current, fmt.Errorf("%s: %w", op, domain.ErrConcurrentAuth)
	}
	previous := s.state.Clone()
	previousToken := s.token
	s.pendingLogout = false
	s.commitLocked(domain.Authenticating())
	s.mu.Unlock()
	s.deliver()

	identity, callErr := call(ctx)
	if callErr == nil && strings.TrimSpace(string(identity.User.ID)) == "" {
		callErr = errors.New("identity provider returned a user without id")
	}

	s.mu.Lock()
	if s.pendingLogout {
		s.pendingLogout = false
		s.token = ""
		next := s.commitLocked(domain.Anonymous())
		clearErr := s.clearLocked(ctx)
		s.mu.Unlock()
		s.deliver()
		if clearErr != nil {
			s.log.Warn().Err(clearErr).Msg("clear persisted session")
		}
		return next, fmt.Errorf("%s: %w", op, domain.ErrAuthAborted)
	}

	if callErr != nil {
		s.token = previousToken
		next := s.commitLocked(previous)
		s.mu.Unlock()
		s.deliver()
		s.log.Warn().Err(callErr).Str("op", op).Str("restored", string(next.Status)).Msg("authentication failed")
		return next, wrapAuthError(op, failure, callErr)
	}

	s.token = identity.Token
	next := s.commitLocked(domain.Authenticated(identity.User, nil))
	saveErr := s.saveLocked(ctx)
	s.mu.Unlock()
	s.deliver()

	if saveErr != nil {
		return next, fmt.Errorf("%s: persist session: %w", op, saveErr)
	}
	return next, nil
}

func wrapAuthError(op string, failure, err error) error {
	if errors.Is(err, failure) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, failure, err)
}

// SetChildInfo attaches or replaces the child profile. Only legal while
// Authenticated; onboarding is never implied by any other transition.
func (s *SessionStore) SetChildInfo(ctx context.Context, child domain.ChildProfile) (domain.SessionState, error) {
	child.Name = strings.TrimSpace(child.Name)
	child.Grade = strings.TrimSpace(child.Grade)
	child.School = strings.TrimSpace(child.School)

	s.mu.Lock()
	if !s.state.IsAuthenticated() {
		current := s.state.Clone()
		s.mu.Unlock()
		return current, fmt.Errorf("set child info from %s: %w", current.Status, domain.ErrPrecondition)
	}
	if err := domain.ValidateChildProfile(child); err != nil {
		current := s.state.Clone()
		s.mu.Unlock()
		return current, fmt.Errorf("set child info: %w", err)
	}
	if child.ID == "" {
		child.ID = domain.ChildID(s.newID())
	}

	next := s.commitLocked(domain.Authenticated(*s.state.User, &child))
	saveErr := s.saveLocked(ctx)
	s.mu.Unlock()
	s.deliver()

	if saveErr != nil {
		return next, fmt.Errorf("set child info: persist session: %w", saveErr)
	}
	return next, nil
}

// Logout always ends in Anonymous. While an attempt is in flight the logout
// is queued and applied when that attempt resolves.
func (s *SessionStore) Logout(ctx context.Context) domain.SessionState {
	s.mu.Lock()
	if s.state.Status == domain.SessionAuthenticating {
		s.pendingLogout = true
		s.mu.Unlock()
		s.log.Debug().Msg("logout queued behind pending authentication")
		return domain.Anonymous()
	}

	s.token = ""
	var next domain.SessionState
	if s.state.Status != domain.SessionAnonymous {
		next = s.commitLocked(domain.Anonymous())
	} else {
		next = s.state.Clone()
	}
	clearErr := s.clearLocked(ctx)
	s.mu.Unlock()
	s.deliver()

	if clearErr != nil {
		s.log.Warn().Err(clearErr).Msg("clear persisted session")
	}
	return next
}

// replaceUser swaps the authenticated user's profile fields, keeping the id.
func (s *SessionStore) replaceUser(ctx context.Context, user domain.User) (domain.SessionState, error) {
	s.mu.Lock()
	if !s.state.IsAuthenticated() {
		current := s.state.Clone()
		s.mu.Unlock()
		return current, fmt.Errorf("update profile from %s: %w", current.Status, domain.ErrPrecondition)
	}
	user.ID = s.state.User.ID

	next := s.commitLocked(domain.Authenticated(user, s.state.Child))
	saveErr := s.saveLocked(ctx)
	s.mu.Unlock()
	s.deliver()

	if saveErr != nil {
		return next, fmt.Errorf("update profile: persist session: %w", saveErr)
	}
	return next, nil
}

// commitLocked installs next and queues its notification. Queue order is
// commit order.
func (s *SessionStore) commitLocked(next domain.SessionState) domain.SessionState {
	s.log.Debug().Str("from", string(s.state.Status)).Str("to", string(next.Status)).Msg("session transition")
	s.state = next.Clone()

	subs := make([]func(domain.SessionState), 0, len(s.subscribers))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.outbox = append(s.outbox, sessionEvent{state: s.state.Clone(), subs: subs})

	return s.state.Clone()
}

// deliver drains the outbox outside the state lock. Only one goroutine
// delivers at a time; a caller that finds delivery in progress leaves its
// event to that goroutine, which also covers subscribers that re-enter the
// store.
func (s *SessionStore) deliver() {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for len(s.outbox) > 0 {
		event := s.outbox[0]
		s.outbox = s.outbox[1:]
		s.mu.Unlock()

		for _, fn := range event.subs {
			fn(event.state.Clone())
		}

		s.mu.Lock()
	}

	s.delivering = false
	s.mu.Unlock()
}

func (s *SessionStore) saveLocked(ctx context.Context) error {
	if s.repo == nil || !s.state.IsAuthenticated() {
		return nil
	}

	return s.repo.Save(ctx, ports.PersistedSession{
		User:  *s.state.User,
		Child: s.state.Child.Clone(),
		Token: s.token,
	})
}

func (s *SessionStore) clearLocked(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	return s.repo.Clear(ctx)
}
