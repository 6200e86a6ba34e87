package toml

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepo(t *testing.T) *UserRepository {
	t.Helper()

	config := viper.New()
	config.Set(UsersPathKey, filepath.Join(t.TempDir(), "users.toml"))
	repo, err := NewUserRepository(config)
	require.NoError(t, err)
	return repo
}

func janeRecord() ports.UserRecord {
	return ports.UserRecord{
		User:         domain.User{ID: "u-1", Name: "Jane Doe", Email: "Jane@Example.com"},
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestUserRepositoryCreateAndFind(t *testing.T) {
	t.Parallel()

	repo := newUserRepo(t)
	record := janeRecord()
	require.NoError(t, repo.Create(context.Background(), record))

	byEmail, err := repo.FindByEmail(context.Background(), "  jane@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, record, byEmail)

	byID, err := repo.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, record, byID)
}

func TestUserRepositoryMissingUser(t *testing.T) {
	t.Parallel()

	repo := newUserRepo(t)
	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.FindByID(context.Background(), "u-404")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepositoryCreateRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newUserRepo(t)
	require.NoError(t, repo.Create(context.Background(), janeRecord()))

	duplicate := janeRecord()
	duplicate.User.ID = "u-2"
	duplicate.User.Email = "jane@example.com"
	err := repo.Create(context.Background(), duplicate)
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserRepositoryUpdate(t *testing.T) {
	t.Parallel()

	repo := newUserRepo(t)
	require.NoError(t, repo.Create(context.Background(), janeRecord()))
	other := janeRecord()
	other.User = domain.User{ID: "u-2", Name: "John", Email: "john@example.com"}
	require.NoError(t, repo.Create(context.Background(), other))

	updated := janeRecord()
	updated.User.Name = "Jane Smith"
	updated.User.Phone = "5551234567"
	require.NoError(t, repo.Update(context.Background(), updated))

	got, err := repo.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.User.Name)
	assert.Equal(t, "5551234567", got.User.Phone)

	taken := janeRecord()
	taken.User.Email = "JOHN@example.com"
	require.ErrorIs(t, repo.Update(context.Background(), taken), domain.ErrUserExists)

	missing := janeRecord()
	missing.User.ID = "u-404"
	missing.User.Email = "ghost@example.com"
	require.ErrorIs(t, repo.Update(context.Background(), missing), domain.ErrUserNotFound)
}
