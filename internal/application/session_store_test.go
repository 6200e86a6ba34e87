package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreSignupOnboardingLogoutScenario(t *testing.T) {
	t.Parallel()

	identity := &mockIdentity{}
	identity.On("Register", mock.Anything, "a@b.com", "Abcdef12", "Jane").
		Return(ports.Identity{User: domain.User{ID: "u-1", Name: "Jane", Email: "a@b.com"}, Token: "tok-1"}, nil).
		Once()
	repo := &inMemorySessionRepo{}
	store := NewSessionStore(identity, repo, zerolog.Nop())

	require.Equal(t, domain.SessionAnonymous, store.State().Status)

	state, err := store.Signup(context.Background(), "a@b.com", "Abcdef12", "Jane")
	require.NoError(t, err)
	require.Equal(t, domain.SessionAuthenticated, state.Status)
	require.NotNil(t, state.User)
	assert.Equal(t, "Jane", state.User.Name)
	assert.Nil(t, state.Child)
	assert.True(t, Authorize(state, "/dashboard").Allowed)

	state, err = store.SetChildInfo(context.Background(), domain.ChildProfile{Name: "Alex", Grade: "8th", School: "Lincoln"})
	require.NoError(t, err)
	require.NotNil(t, state.Child)
	assert.Equal(t, "Alex", state.Child.Name)
	assert.NotEmpty(t, state.Child.ID)

	saved, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", saved.Token)
	require.NotNil(t, saved.Child)
	assert.Equal(t, "Alex", saved.Child.Name)

	state = store.Logout(context.Background())
	assert.Equal(t, domain.Anonymous(), state)
	assert.Equal(t, domain.Anonymous(), store.State())
	assert.Equal(t, Decision{Allowed: false, Target: domain.RouteLogin, Mode: NavigationReplace}, Authorize(store.State(), "/dashboard"))

	_, err = repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	identity.AssertExpectations(t)
}

func TestSessionStoreLoginInvalidCredentialsReturnsToAnonymous(t *testing.T) {
	t.Parallel()

	identity := &mockIdentity{}
	identity.On("Authenticate", mock.Anything, "a@b.com", "wrongpass").
		Return(ports.Identity{}, domain.ErrInvalidCredentials).
		Once()
	store := NewSessionStore(identity, nil, zerolog.Nop())

	var seen []domain.SessionStatus
	store.Subscribe(func(state domain.SessionState) {
		seen = append(seen, state.Status)
	})

	state, err := store.Login(context.Background(), "a@b.com", "wrongpass")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, domain.SessionAnonymous, state.Status)
	assert.Equal(t, domain.SessionAnonymous, store.State().Status)
	assert.Equal(t, []domain.SessionStatus{domain.SessionAuthenticating, domain.SessionAnonymous}, seen)
}

func TestSessionStoreUnexpectedIdentityFailureIsClassified(t *testing.T) {
	t.Parallel()

	boom := errors.New("backend unavailable")
	identity := &mockIdentity{}
	identity.On("Register", mock.Anything, "a@b.com", "Abcdef12", "Jane").Return(ports.Identity{}, boom).Once()
	store := NewSessionStore(identity, nil, zerolog.Nop())

	_, err := store.Signup(context.Background(), "a@b.com", "Abcdef12", "Jane")
	require.ErrorIs(t, err, domain.ErrRegistration)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.SessionAnonymous, store.State().Status)
}

func TestSessionStoreFailedReloginRestoresPreviousSession(t *testing.T) {
	t.Parallel()

	identity := &mockIdentity{}
	identity.On("Authenticate", mock.Anything, "a@b.com", "Abcdef12").
		Return(ports.Identity{User: domain.User{ID: "u-1", Email: "a@b.com"}}, nil).Once()
	identity.On("Authenticate", mock.Anything, "a@b.com", "wrongpass").
		Return(ports.Identity{}, domain.ErrInvalidCredentials).Once()
	store := NewSessionStore(identity, nil, zerolog.Nop())

	_, err := store.Login(context.Background(), "a@b.com", "Abcdef12")
	require.NoError(t, err)
	_, err = store.SetChildInfo(context.Background(), domain.ChildProfile{Name: "Alex", Grade: "8th", School: "Lincoln"})
	require.NoError(t, err)

	state, err := store.Login(context.Background(), "a@b.com", "wrongpass")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, domain.SessionAuthenticated, state.Status)
	require.NotNil(t, state.Child)
	assert.Equal(t, "Alex", state.Child.Name)
}

func TestSessionStoreLoginDoesNotForceOnboarding(t *testing.T) {
	t.Parallel()

	identity := &mockIdentity{}
	identity.On("Authenticate", mock.Anything, "a@b.com", "alllowercase").
		Return(ports.Identity{User: domain.User{ID: "u-1", Email: "a@b.com"}}, nil).Once()
	store := NewSessionStore(identity, nil, zerolog.Nop())

	state, err := store.Login(context.Background(), "a@b.com", "alllowercase")
	require.NoError(t, err)
	assert.Nil(t, state.Child)
	assert.True(t, Authorize(state, "/dashboard").Allowed)
}

func TestSessionStoreValidationFailsClosedWithoutCallingIdentity(t *testing.T) {
	t.Parallel()

	identity := &mockIdentity{}
	store := NewSessionStore(identity, nil, zerolog.Nop())

	_, err := store.Login(context.Background(), "not-an-email", "short")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = store.Signup(context.Background(), "a@b.com", "alllowercase", "Jane")
	require.ErrorIs(t, err, domain.CodeMissingUppercase)
	require.ErrorIs(t, err, domain.CodeMissingDigit)

	assert.Equal(t, domain.SessionAnonymous, store.State().Status)
	identity.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	identity.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionStoreRejectsConcurrentAuthentication(t *testing.T) {
	t.Parallel()

	gate := newGatedIdentity(ports.Identity{User: domain.User{ID: "u-1", Email: "a@b.com"}}, nil)
	store := NewSessionStore(gate, nil, zerolog.Nop())

	done := make(chan authResult, 1)
	go func() {
		state, err := store.Login(context.Background(), "a@b.com", "Abcdef12")
		done <- authResult{state: state, err: err}
	}()

	<-gate.started
	assert.Equal(t, domain.SessionAuthenticating, store.State().Status)
	assert.Nil(t, store.State().User)

	state, err := store.Signup(context.Background(), "c@d.com", "Abcdef12", "Other")
	require.ErrorIs(t, err, domain.ErrConcurrentAuth)
	assert.Equal(t, domain.SessionAuthenticating, state.Status)

	close(gate.release)
	first := <-done
	require.NoError(t, first.err)
	assert.Equal(t, domain.SessionAuthenticated, first.state.Status)
	assert.Equal(t, 1, gate.callCount())
}

func TestSessionStoreLogoutDuringAuthenticationIsQueued(t *testing.T) {
	t.Parallel()

	gate := newGatedIdentity(ports.Identity{User: domain.User{ID: "u-1", Email: "a@b.com"}, Token: "tok"}, nil)
	repo := &inMemorySessionRepo{}
	store := NewSessionStore(gate, repo, zerolog.Nop())

	done := make(chan authResult, 1)
	go func() {
		state, err := store.Login(context.Background(), "a@b.com", "Abcdef12")
		done <- authResult{state: state, err: err}
	}()
	<-gate.started

	assert.Equal(t, domain.Anonymous(), store.Logout(context.Background()))
	assert.Equal(t, domain.SessionAuthenticating, store.State().Status)

	close(gate.release)
	result := <-done
	require.ErrorIs(t, result.err, domain.ErrAuthAborted)
	assert.Equal(t, domain.Anonymous(), result.state)
	assert.Equal(t, domain.Anonymous(), store.State())

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStoreCancelledAttemptRollsBack(t *testing.T) {
	t.Parallel()

	identity := &mockIdentity{}
	identity.On("Authenticate", mock.Anything, "a@b.com", "Abcdef12").Return(ports.Identity{}, context.Canceled).Once()
	store := NewSessionStore(identity, nil, zerolog.Nop())

	_, err := store.Login(context.Background(), "a@b.com", "Abcdef12")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, domain.SessionAnonymous, store.State().Status)
}

func TestSessionStoreSetChildInfoRequiresAuthentication(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(&mockIdentity{}, nil, zerolog.Nop())

	state, err := store.SetChildInfo(context.Background(), domain.ChildProfile{Name: "Alex", Grade: "8th", School: "Lincoln"})
	require.ErrorIs(t, err, domain.ErrPrecondition)
	assert.Equal(t, domain.Anonymous(), state)
}

func TestSessionStoreSetChildInfoValidatesProfile(t *testing.T) {
	t.Parallel()

	store := authenticatedStore(t)

	state, err := store.SetChildInfo(context.Background(), domain.ChildProfile{Name: "A", Grade: "8th"})
	require.ErrorIs(t, err, domain.CodeTooShort)
	require.ErrorIs(t, err, domain.CodeRequired)
	assert.Nil(t, state.Child)
}

func TestSessionStoreLogoutIsIdempotentAndNotifiesOnce(t *testing.T) {
	t.Parallel()

	store := authenticatedStore(t)
	notifications := 0
	unsubscribe := store.Subscribe(func(domain.SessionState) { notifications++ })
	defer unsubscribe()

	first := store.Logout(context.Background())
	second := store.Logout(context.Background())

	assert.Equal(t, domain.Anonymous(), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, notifications)
}

func TestSessionStoreInvariantHoldsForEveryNotification(t *testing.T) {
	t.Parallel()

	identity := &mockIdentity{}
	identity.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).
		Return(ports.Identity{User: domain.User{ID: "u-1", Email: "a@b.com"}}, nil)
	identity.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(ports.Identity{}, domain.ErrRegistration)
	store := NewSessionStore(identity, nil, zerolog.Nop())

	var mu sync.Mutex
	var violations []error
	store.Subscribe(func(state domain.SessionState) {
		if err := state.Validate(); err != nil {
			mu.Lock()
			violations = append(violations, err)
			mu.Unlock()
		}
	})

	ctx := context.Background()
	_, _ = store.Signup(ctx, "a@b.com", "Abcdef12", "Jane")
	_, _ = store.Login(ctx, "a@b.com", "Abcdef12")
	_, _ = store.SetChildInfo(ctx, domain.ChildProfile{Name: "Alex", Grade: "8th", School: "Lincoln"})
	store.Logout(ctx)
	_, _ = store.SetChildInfo(ctx, domain.ChildProfile{Name: "Alex", Grade: "8th", School: "Lincoln"})
	store.Logout(ctx)

	require.NoError(t, store.State().Validate())
	assert.Empty(t, violations)
}

func TestSessionStoreDeliversNotificationsInCommitOrder(t *testing.T) {
	t.Parallel()

	identity := &mockIdentity{}
	identity.On("Authenticate", mock.Anything, "a@b.com", "Abcdef12").
		Return(ports.Identity{User: domain.User{ID: "u-1", Email: "a@b.com"}, Token: "tok"}, nil).
		Once()
	store := NewSessionStore(identity, nil, zerolog.Nop())

	var (
		mu       sync.Mutex
		statuses []domain.SessionStatus
	)
	reached := make(chan struct{})
	release := make(chan struct{})
	unsubscribe := store.Subscribe(func(state domain.SessionState) {
		mu.Lock()
		statuses = append(statuses, state.Status)
		mu.Unlock()
		if state.Status == domain.SessionAuthenticated {
			close(reached)
			<-release
		}
	})
	defer unsubscribe()

	done := make(chan authResult, 1)
	go func() {
		state, err := store.Login(context.Background(), "a@b.com", "Abcdef12")
		done <- authResult{state: state, err: err}
	}()

	<-reached
	assert.Equal(t, domain.Anonymous(), store.Logout(context.Background()))
	close(release)

	result := <-done
	require.NoError(t, result.err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.SessionStatus{
		domain.SessionAuthenticating,
		domain.SessionAuthenticated,
		domain.SessionAnonymous,
	}, statuses)
	assert.Equal(t, statuses[len(statuses)-1], store.State().Status)
}

func TestSessionStoreSubscriberMayReenterStore(t *testing.T) {
	t.Parallel()

	store := authenticatedStore(t)

	var states []domain.SessionState
	unsubscribe := store.Subscribe(func(state domain.SessionState) {
		states = append(states, state)
		if state.HasChild() {
			assert.Equal(t, domain.Anonymous(), store.Logout(context.Background()))
		}
	})
	defer unsubscribe()

	_, err := store.SetChildInfo(context.Background(), domain.ChildProfile{Name: "Alex", Grade: "8th", School: "Lincoln"})
	require.NoError(t, err)

	require.Len(t, states, 2)
	assert.True(t, states[0].HasChild())
	assert.Equal(t, domain.Anonymous(), states[1])
	assert.Equal(t, domain.Anonymous(), store.State())
}

func TestSessionStoreStateIsACopy(t *testing.T) {
	t.Parallel()

	store := authenticatedStore(t)
	state := store.State()
	state.User.Name = "Mallory"

	assert.Equal(t, "Jane", store.State().User.Name)
}

func TestSessionStoreRestoreLoadsPersistedSession(t *testing.T) {
	t.Parallel()

	repo := &inMemorySessionRepo{session: &ports.PersistedSession{
		User:  domain.User{ID: "u-1", Name: "Jane", Email: "a@b.com"},
		Child: &domain.ChildProfile{ID: "c-1", Name: "Alex", Grade: "8th", School: "Lincoln"},
		Token: "tok",
	}}
	store := NewSessionStore(&mockIdentity{}, repo, zerolog.Nop())

	require.NoError(t, store.Restore(context.Background()))
	state := store.State()
	assert.True(t, state.HasChild())
	assert.Equal(t, domain.UserID("u-1"), state.User.ID)

	empty := NewSessionStore(&mockIdentity{}, &inMemorySessionRepo{}, zerolog.Nop())
	require.NoError(t, empty.Restore(context.Background()))
	assert.Equal(t, domain.Anonymous(), empty.State())
}

func TestSessionStoreReportsPersistFailureButKeepsCommittedState(t *testing.T) {
	t.Parallel()

	saveErr := errors.New("disk full")
	identity := &mockIdentity{}
	identity.On("Authenticate", mock.Anything, "a@b.com", "Abcdef12").
		Return(ports.Identity{User: domain.User{ID: "u-1", Email: "a@b.com"}}, nil).Once()
	store := NewSessionStore(identity, &inMemorySessionRepo{saveErr: saveErr}, zerolog.Nop())

	state, err := store.Login(context.Background(), "a@b.com", "Abcdef12")
	require.ErrorIs(t, err, saveErr)
	assert.Equal(t, domain.SessionAuthenticated, state.Status)
}

type authResult struct {
	state domain.SessionState
	err   error
}

func authenticatedStore(t *testing.T) *SessionStore {
	t.Helper()

	identity := &mockIdentity{}
	identity.On("Authenticate", mock.Anything, "a@b.com", "Abcdef12").
		Return(ports.Identity{User: domain.User{ID: "u-1", Name: "Jane", Email: "a@b.com"}}, nil).Once()
	store := NewSessionStore(identity, nil, zerolog.Nop())

	_, err := store.Login(context.Background(), "a@b.com", "Abcdef12")
	require.NoError(t, err)
	return store
}

type mockIdentity struct {
	mock.Mock
}

func (m *mockIdentity) Authenticate(ctx context.Context, email, password string) (ports.Identity, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(ports.Identity), args.Error(1)
}

func (m *mockIdentity) Register(ctx context.Context, email, password, name string) (ports.Identity, error) {
	args := m.Called(ctx, email, password, name)
	return args.Get(0).(ports.Identity), args.Error(1)
}

type gatedIdentity struct {
	started chan struct{}
	release chan struct{}
	result  ports.Identity
	err     error

	mu    sync.Mutex
	calls int
}

func newGatedIdentity(result ports.Identity, err error) *gatedIdentity {
	return &gatedIdentity{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		result:  result,
		err:     err,
	}
}

func (g *gatedIdentity) wait(ctx context.Context) (ports.Identity, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	g.started <- struct{}{}
	select {
	case <-g.release:
		return g.result, g.err
	case <-ctx.Done():
		return ports.Identity{}, ctx.Err()
	}
}

func (g *gatedIdentity) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *gatedIdentity) Authenticate(ctx context.Context, _, _ string) (ports.Identity, error) {
	return g.wait(ctx)
}

func (g *gatedIdentity) Register(ctx context.Context, _, _, _ string) (ports.Identity, error) {
	return g.wait(ctx)
}

type inMemorySessionRepo struct {
	mu      sync.Mutex
	session *ports.PersistedSession
	saveErr error
}

func (r *inMemorySessionRepo) Load(_ context.Context) (ports.PersistedSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return ports.PersistedSession{}, domain.ErrSessionNotFound
	}
	return *r.session, nil
}

func (r *inMemorySessionRepo) Save(_ context.Context, session ports.PersistedSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	r.session = &session
	return nil
}

func (r *inMemorySessionRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session = nil
	return nil
}
