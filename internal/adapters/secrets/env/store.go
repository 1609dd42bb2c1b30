package env

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/trak-cli/trak/internal/domain"
	"github.com/trak-cli/trak/internal/ports"
)

// Store resolves tokens from environment variables. Keys are mapped to
// TRAK_<KEY> with path separators flattened, so "api_token" becomes
// TRAK_API_TOKEN. The store is read-only.
type Store struct{}

var _ ports.TokenStore = Store{}

var errReadOnly = errors.New("environment token store is read-only")

func NewStore() Store { return Store{} }

func (Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, err := envName(key)
	if err != nil {
		return "", err
	}

	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", fmt.Errorf("env %s: %w", name, domain.ErrTokenNotFound)
	}

	return value, nil
}

func (Store) Put(ctx context.Context, _ string, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return errReadOnly
}

func (Store) Delete(ctx context.Context, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return errReadOnly
}

func envName(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("token key is empty")
	}

	flattened := strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(trimmed)
	return "TRAK_" + strings.ToUpper(flattened), nil
}
