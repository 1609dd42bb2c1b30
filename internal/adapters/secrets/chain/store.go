package chain

import (
	"context"
	"errors"
	"fmt"

	envstore "github.com/trak-cli/trak/internal/adapters/secrets/env"
	filestore "github.com/trak-cli/trak/internal/adapters/secrets/file"
	"github.com/trak-cli/trak/internal/ports"
)

// Store chains two token backends: reads try the primary first and fall back
// to the secondary, writes and deletes go to whichever backend accepts them.
type Store struct {
	primary  ports.TokenStore
	fallback ports.TokenStore
}

var _ ports.TokenStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary token store is nil")
	errNilFallbackStore = errors.New("fallback token store is nil")
)

func NewStore(primary ports.TokenStore, fallback ports.TokenStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// NewEnvFirstWithFileFallback is the default wiring: environment variables
// win (CI and scripting), the file store under fileRoot holds tokens set via
// the auth commands.
func NewEnvFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStore(envstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx, key)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
