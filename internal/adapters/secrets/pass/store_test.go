package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenKey = "parent-portal/sessions/u-1/token"

func stubStore(fn runFunc) *Store {
	return &Store{run: fn}
}

func TestStorePutInsertsMultiline(t *testing.T) {
	t.Parallel()

	called := false
	store := stubStore(func(ctx context.Context, input string, args ...string) (string, string, error) {
		called = true
		assert.Equal(t, []string{"insert", "--multiline", "--force", tokenKey}, args)
		assert.Equal(t, "tok-123\n", input)
		return "", "", nil
	})

	require.NoError(t, store.Put(context.Background(), tokenKey, "tok-123"))
	assert.True(t, called)
}

func TestStoreGetTrimsTrailingNewline(t *testing.T) {
	t.Parallel()

	store := stubStore(func(ctx context.Context, input string, args ...string) (string, string, error) {
		assert.Equal(t, []string{"show", tokenKey}, args)
		assert.Empty(t, input)
		return "tok-123\r\n", "", nil
	})

	value, err := store.Get(context.Background(), tokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", value)
}

func TestStoreGetMissingEntryReportsNotFound(t *testing.T) {
	t.Parallel()

	store := stubStore(func(ctx context.Context, input string, args ...string) (string, string, error) {
		return "", "Error: " + tokenKey + " is not in the password store.", errors.New("exit status 1")
	})

	_, err := store.Get(context.Background(), tokenKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := stubStore(func(ctx context.Context, input string, args ...string) (string, string, error) {
		return "", "gpg: decryption failed", errors.New("exit status 2")
	})

	_, err := store.Get(context.Background(), tokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, tokenKey)
	assert.ErrorContains(t, err, "decryption failed")
}

func TestStoreDeleteIgnoresMissingEntry(t *testing.T) {
	t.Parallel()

	store := stubStore(func(ctx context.Context, input string, args ...string) (string, string, error) {
		assert.Equal(t, []string{"rm", "--force", tokenKey}, args)
		return "", "Error: " + tokenKey + " is not in the password store.", errors.New("exit status 1")
	})

	require.NoError(t, store.Delete(context.Background(), tokenKey))
}

func TestStoreSkipsCommandOnCanceledContext(t *testing.T) {
	t.Parallel()

	store := stubStore(func(ctx context.Context, input string, args ...string) (string, string, error) {
		t.Fatal("pass must not run with a canceled context")
		return "", "", nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Put(ctx, tokenKey, "tok"), context.Canceled)
	require.ErrorIs(t, store.Delete(ctx, tokenKey), context.Canceled)
}
