package toml

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/spf13/viper"
)

const (
	usersFileName = "users.toml"
	usersLabel    = "users"
)

// UserRepository is the registry behind the local identity backend.
type UserRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(cfg *viper.Viper) (*UserRepository, error) {
	path, err := resolvePath(cfg, UsersPathKey, usersFileName)
	if err != nil {
		return nil, err
	}

	return &UserRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (ports.UserRecord, error) {
	normalized := normalizeEmail(email)
	return r.find(ctx, func(entry userRecordSchema) bool {
		return normalizeEmail(entry.Email) == normalized
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id domain.UserID) (ports.UserRecord, error) {
	return r.find(ctx, func(entry userRecordSchema) bool {
		return entry.ID == string(id)
	})
}

func (r *UserRepository) Create(ctx context.Context, record ports.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	email := normalizeEmail(record.User.Email)
	for _, entry := range file.Users {
		if entry.ID == string(record.User.ID) || normalizeEmail(entry.Email) == email {
			return fmt.Errorf("create user %q: %w", record.User.Email, domain.ErrUserExists)
		}
	}
	file.Users = append(file.Users, toUserRecordSchema(record))

	return writeTOMLFile(r.path, usersLabel, file)
}

// Update replaces the record with the same id. Moving to an email another
// user already holds fails with domain.ErrUserExists.
func (r *UserRepository) Update(ctx context.Context, record ports.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	email := normalizeEmail(record.User.Email)
	index := -1
	for i, entry := range file.Users {
		if entry.ID == string(record.User.ID) {
			index = i
			continue
		}
		if normalizeEmail(entry.Email) == email {
			return fmt.Errorf("update user %q: %w", record.User.Email, domain.ErrUserExists)
		}
	}
	if index < 0 {
		return fmt.Errorf("update user %q: %w", record.User.ID, domain.ErrUserNotFound)
	}
	file.Users[index] = toUserRecordSchema(record)

	return writeTOMLFile(r.path, usersLabel, file)
}

func (r *UserRepository) find(ctx context.Context, match func(userRecordSchema) bool) (ports.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return ports.UserRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return ports.UserRecord{}, err
	}

	for _, entry := range file.Users {
		if match(entry) {
			return fromUserRecordSchema(entry)
		}
	}

	return ports.UserRecord{}, domain.ErrUserNotFound
}

func (r *UserRepository) readSchema() (usersFileSchema, error) {
	var file usersFileSchema
	if _, err := readTOMLFile(r.path, usersLabel, &file); err != nil {
		return usersFileSchema{}, err
	}
	if err := checkVersion(usersLabel, file.Version); err != nil {
		return usersFileSchema{}, err
	}
	if file.Version == 0 {
		file.Version = currentSchemaVersion
	}

	return file, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserRecordSchema(record ports.UserRecord) userRecordSchema {
	return userRecordSchema{
		ID:           string(record.User.ID),
		Name:         record.User.Name,
		Email:        record.User.Email,
		Avatar:       record.User.Avatar,
		Phone:        record.User.Phone,
		PasswordHash: record.PasswordHash,
		CreatedAt:    formatTime(record.CreatedAt),
	}
}

func fromUserRecordSchema(entry userRecordSchema) (ports.UserRecord, error) {
	createdAt, err := parseTime(entry.CreatedAt)
	if err != nil {
		return ports.UserRecord{}, fmt.Errorf("decode user %q created_at: %w", entry.ID, err)
	}

	return ports.UserRecord{
		User: domain.User{
			ID:     domain.UserID(entry.ID),
			Name:   entry.Name,
			Email:  entry.Email,
			Avatar: entry.Avatar,
			Phone:  entry.Phone,
		},
		PasswordHash: entry.PasswordHash,
		CreatedAt:    createdAt,
	}, nil
}
