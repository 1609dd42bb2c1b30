package ports

import "context"

// TokenStore holds API credentials outside the config file.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
