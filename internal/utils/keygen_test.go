package utils_test

import (
	"context"
	"testing"

	"github.com/pennypusher/pennypusher/internal/core/domain"
	"github.com/pennypusher/pennypusher/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePusherKeyFormat(t *testing.T) {
	neverTaken := func(ctx context.Context, key string) (bool, error) {
		return false, nil
	}

	key, err := utils.GeneratePusherKey(context.Background(), neverTaken)
	require.NoError(t, err)
	assert.Len(t, key, domain.KeyLength)
	for _, r := range key {
		assert.Contains(t, "0123456789ABCDEF", string(r))
	}
}

func TestGeneratePusherKeyRetriesTakenKeys(t *testing.T) {
	calls := 0
	takenTwice := func(ctx context.Context, key string) (bool, error) {
		calls++
		return calls <= 2, nil
	}

	key, err := utils.GeneratePusherKey(context.Background(), takenTwice)
	require.NoError(t, err)
	assert.Len(t, key, domain.KeyLength)
	assert.Equal(t, 3, calls)
}

func TestGeneratePusherKeyPropagatesError(t *testing.T) {
	boom := func(ctx context.Context, key string) (bool, error) {
		return false, assert.AnError
	}

	_, err := utils.GeneratePusherKey(context.Background(), boom)
	assert.ErrorIs(t, err, assert.AnError)
}
