package toml

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/spf13/viper"
)

const (
	sessionFileName = "session.toml"
	sessionLabel    = "session"
)

// SessionRepository keeps the signed-in parent in a TOML file. The opaque
// token never lands in that file; it lives in the secret store and the file
// only records its key.
type SessionRepository struct {
	path    string
	mu      *sync.RWMutex
	secrets ports.SecretStore
	now     func() time.Time
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(cfg *viper.Viper, secrets ports.SecretStore) (*SessionRepository, error) {
	path, err := resolvePath(cfg, SessionPathKey, sessionFileName)
	if err != nil {
		return nil, err
	}

	return &SessionRepository{path: path, mu: lockForPath(path), secrets: secrets, now: time.Now}, nil
}

func (r *SessionRepository) Path() string {
	return r.path
}

func (r *SessionRepository) Load(ctx context.Context) (ports.PersistedSession, error) {
	if err := ctx.Err(); err != nil {
		return ports.PersistedSession{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, found, err := r.readSchema()
	if err != nil {
		return ports.PersistedSession{}, err
	}
	if !found || strings.TrimSpace(file.User.ID) == "" {
		return ports.PersistedSession{}, domain.ErrSessionNotFound
	}

	session := ports.PersistedSession{
		User:  fromUserSchema(file.User),
		Child: fromChildSchema(file.Child),
	}
	if file.TokenRef != "" && r.secrets != nil {
		token, err := r.secrets.Get(ctx, file.TokenRef)
		if err != nil {
			if errors.Is(err, domain.ErrSecretNotFound) {
				return ports.PersistedSession{}, fmt.Errorf("session token missing: %w", domain.ErrSessionNotFound)
			}
			return ports.PersistedSession{}, fmt.Errorf("load session token: %w", err)
		}
		session.Token = token
	}

	return session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session ports.PersistedSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(string(session.User.ID)) == "" {
		return errors.New("save session: user id is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, _, err := r.readSchema()
	if err != nil {
		return err
	}

	file := sessionFileSchema{
		Version: currentSchemaVersion,
		SavedAt: formatTime(r.now()),
		User:    toUserSchema(session.User),
		Child:   toChildSchema(session.Child),
	}

	if r.secrets != nil && session.Token != "" {
		file.TokenRef = tokenKey(session.User.ID)
		if err := r.secrets.Put(ctx, file.TokenRef, session.Token); err != nil {
			return fmt.Errorf("store session token: %w", err)
		}
	}
	if previous.TokenRef != "" && previous.TokenRef != file.TokenRef && r.secrets != nil {
		if err := r.secrets.Delete(ctx, previous.TokenRef); err != nil {
			return fmt.Errorf("delete previous session token: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return writeTOMLFile(r.path, sessionLabel, file)
}

// Clear forgets the session and its token. Clearing an absent session is a
// no-op. The session file is removed even when the token cannot be deleted.
func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, found, err := r.readSchema()
	if err != nil && !errors.Is(err, errUnsupportedVersion) {
		return err
	}
	var tokenErr error
	if found && file.TokenRef != "" && r.secrets != nil {
		if err := r.secrets.Delete(ctx, file.TokenRef); err != nil {
			tokenErr = fmt.Errorf("delete session token: %w", err)
		}
	}

	return errors.Join(removeFile(r.path, sessionLabel), tokenErr)
}

func (r *SessionRepository) readSchema() (sessionFileSchema, bool, error) {
	var file sessionFileSchema
	found, err := readTOMLFile(r.path, sessionLabel, &file)
	if err != nil || !found {
		return sessionFileSchema{}, found, err
	}
	if err := checkVersion(sessionLabel, file.Version); err != nil {
		return sessionFileSchema{}, true, err
	}

	return file, true, nil
}

func tokenKey(id domain.UserID) string {
	return "parent-portal/sessions/" + string(id) + "/token"
}

func toUserSchema(user domain.User) userSchema {
	return userSchema{
		ID:     string(user.ID),
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Phone:  user.Phone,
	}
}

func fromUserSchema(user userSchema) domain.User {
	return domain.User{
		ID:     domain.UserID(user.ID),
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Phone:  user.Phone,
	}
}

func toChildSchema(child *domain.ChildProfile) *childSchema {
	if child == nil {
		return nil
	}

	return &childSchema{
		ID:     string(child.ID),
		Name:   child.Name,
		Grade:  child.Grade,
		School: child.School,
		Avatar: child.Avatar,
	}
}

func fromChildSchema(child *childSchema) *domain.ChildProfile {
	if child == nil {
		return nil
	}

	return &domain.ChildProfile{
		ID:     domain.ChildID(child.ID),
		Name:   child.Name,
		Grade:  child.Grade,
		School: child.School,
		Avatar: child.Avatar,
	}
}
