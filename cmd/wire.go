package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	localidentity "github.com/bnema/parent-portal/internal/adapters/identity/local"
	stubidentity "github.com/bnema/parent-portal/internal/adapters/identity/stub"
	dashboardview "github.com/bnema/parent-portal/internal/adapters/render/dashboard"
	inboxview "github.com/bnema/parent-portal/internal/adapters/render/inbox"
	tomlrepo "github.com/bnema/parent-portal/internal/adapters/repo/toml"
	chainstore "github.com/bnema/parent-portal/internal/adapters/secrets/chain"
	filestore "github.com/bnema/parent-portal/internal/adapters/secrets/file"
	passstore "github.com/bnema/parent-portal/internal/adapters/secrets/pass"
	"github.com/bnema/parent-portal/internal/adapters/seed"
	"github.com/bnema/parent-portal/internal/application"
	"github.com/bnema/parent-portal/internal/config"
	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/logging"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type identityBackend interface {
	ports.IdentityProvider
	ports.PasswordChanger
	ports.ProfileUpdater
}

type app struct {
	cfg       config.Config
	log       zerolog.Logger
	session   *application.SessionStore
	navigator *application.Navigator
	inbox     *application.Inbox
	inboxRepo ports.ConversationRepository
	profiles  *application.ProfileService
	dashboard *application.DashboardService
	prefs     *application.PreferencesService
	perf      *application.PerformanceService

	renderList      func([]domain.Conversation, inboxview.RenderOptions) (string, error)
	renderThread    func(domain.Conversation, string, inboxview.RenderOptions) (string, error)
	renderDashboard func(application.DashboardSummary, dashboardview.RenderOptions) (string, error)
	renderPerf      func(application.PerformanceReport) (string, error)
	now             func() time.Time
}

func wireApp() (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log := logging.New(os.Stderr, zerolog.TraceLevel)

	secretStore, err := newSecretStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	sessionRepo, err := tomlrepo.NewSessionRepository(v, secretStore)
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}
	inboxRepo, err := tomlrepo.NewConversationRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire inbox repository: %w", err)
	}
	prefsRepo, err := tomlrepo.NewPreferencesRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire preferences repository: %w", err)
	}

	identity, err := newIdentity(cfg, v, log)
	if err != nil {
		return nil, fmt.Errorf("wire identity provider: %w", err)
	}

	ctx := context.Background()
	session := application.NewSessionStore(identity, sessionRepo, log)
	if err := session.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	fixtures := seed.New()
	conversations, err := loadConversations(ctx, inboxRepo, fixtures)
	if err != nil {
		return nil, err
	}
	inbox, err := application.NewInbox(conversations, ports.SystemClock{},
		application.WithLocalParticipant(application.SessionParticipant(session)),
		application.WithInboxLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("wire inbox: %w", err)
	}

	prefs := application.NewPreferencesService(session, prefsRepo, log)

	return &app{
		cfg:             cfg,
		log:             log,
		session:         session,
		navigator:       application.NewNavigator(session),
		inbox:           inbox,
		inboxRepo:       inboxRepo,
		profiles:        application.NewProfileService(session, identity, identity),
		dashboard:       application.NewDashboardService(session, fixtures),
		prefs:           prefs,
		perf:            application.NewPerformanceService(session, fixtures, prefs),
		renderList:      inboxview.RenderList,
		renderThread:    inboxview.RenderThread,
		renderDashboard: dashboardview.Render,
		renderPerf:      dashboardview.RenderPerformance,
		now:             time.Now,
	}, nil
}

func newSecretStore(cfg config.Config) (ports.SecretStore, error) {
	switch cfg.SecretsBackend {
	case config.SecretsPass:
		return passstore.NewStore(), nil
	case config.SecretsAuto:
		return chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir)
	default:
		return filestore.NewStore(cfg.SecretsDir), nil
	}
}

func newIdentity(cfg config.Config, v *viper.Viper, log zerolog.Logger) (identityBackend, error) {
	if cfg.IdentityMode == config.IdentityStub {
		return stubidentity.New(cfg.IdentityDelay), nil
	}

	users, err := tomlrepo.NewUserRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire user registry: %w", err)
	}
	return localidentity.New(users, localidentity.WithLogger(log))
}

// loadConversations falls back to the demo fixtures until the inbox has been
// saved once.
func loadConversations(ctx context.Context, repo ports.ConversationRepository, fixtures ports.SeedProvider) ([]domain.Conversation, error) {
	conversations, err := repo.List(ctx)
	if err == nil {
		return conversations, nil
	}
	if !errors.Is(err, domain.ErrInboxNotFound) {
		return nil, fmt.Errorf("load inbox: %w", err)
	}

	conversations, err = fixtures.Conversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load seed conversations: %w", err)
	}
	return conversations, nil
}

func (a *app) saveInbox(ctx context.Context) error {
	if err := a.inboxRepo.ReplaceAll(ctx, a.inbox.Snapshot()); err != nil {
		return fmt.Errorf("save inbox: %w", err)
	}
	return nil
}

func writeLine(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}
