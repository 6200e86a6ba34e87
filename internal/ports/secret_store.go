package ports

import "context"

// SecretStore keeps opaque session tokens out of the session file. Get fails
// with domain.ErrSecretNotFound for unknown keys.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
