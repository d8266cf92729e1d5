package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/doctrack-api/internal/testutil"
)

func TestRedisCacheRepo_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.Health(ctx))

	t.Run("set and get with ttl", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "doctrack:test:1", []byte(`[{"id":1}]`), time.Minute))

		got, err := repo.Get(ctx, "doctrack:test:1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[{"id":1}]`), got)

		ttl := client.TTL(ctx, "doctrack:test:1").Val()
		assert.True(t, ttl > 0 && ttl <= time.Minute)
	})

	t.Run("missing key", func(t *testing.T) {
		got, err := repo.Get(ctx, "doctrack:test:missing")
		require.NoError(t, err)
		assert.Nil(t, got)

		ok, err := repo.Exists(ctx, "doctrack:test:missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "doctrack:test:2", []byte("x"), 0))

		ok, err := repo.Exists(ctx, "doctrack:test:2")
		require.NoError(t, err)
		assert.True(t, ok)

		deleted, err := repo.Delete(ctx, "doctrack:test:2")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, "doctrack:test:2")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestRedisCacheRepo_EmptyKey(t *testing.T) {
	repo := NewRedisCacheRepo(nil)
	ctx := context.Background()

	_, err := repo.Get(ctx, "")
	assert.ErrorIs(t, err, errEmptyKey)
	assert.ErrorIs(t, repo.Set(ctx, "", nil, 0), errEmptyKey)
	_, err = repo.Delete(ctx, "")
	assert.ErrorIs(t, err, errEmptyKey)
	_, err = repo.Exists(ctx, "")
	assert.ErrorIs(t, err, errEmptyKey)
}
