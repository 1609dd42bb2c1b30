package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trak-cli/trak/internal/domain"
)

func TestGetMapsKeyToEnvVariable(t *testing.T) {
	t.Setenv("TRAK_API_TOKEN", "tok-env")

	value, err := NewStore().Get(context.Background(), "api_token")
	require.NoError(t, err)
	assert.Equal(t, "tok-env", value)
}

func TestGetFlattensSeparators(t *testing.T) {
	t.Setenv("TRAK_CI_API_TOKEN", "tok-ci")

	value, err := NewStore().Get(context.Background(), "ci.api-token")
	require.NoError(t, err)
	assert.Equal(t, "tok-ci", value)
}

func TestGetUnsetVariableReturnsTokenNotFound(t *testing.T) {
	t.Setenv("TRAK_API_TOKEN", "")

	_, err := NewStore().Get(context.Background(), "api_token")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestGetRejectsEmptyKey(t *testing.T) {
	_, err := NewStore().Get(context.Background(), "  ")
	assert.Error(t, err)
}

func TestPutAndDeleteAreReadOnly(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	assert.ErrorIs(t, store.Put(ctx, "api_token", "x"), errReadOnly)
	assert.ErrorIs(t, store.Delete(ctx, "api_token"), errReadOnly)
}
