package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizday/internal/repository"
	"github.com/vytor/quizday/internal/repository/redis"
)

func newStore(t *testing.T) (repository.KVStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.Dial(context.Background(), redis.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return redis.NewKVStore(client, "quizday:"), mr
}

func TestKVStore_GetMissing(t *testing.T) {
	store, _ := newStore(t)

	_, found, err := store.Get(context.Background(), repository.ProfileKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKVStore_SetGetDelete(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, repository.ProgressKey, `{}`))

	raw, err := mr.Get("quizday:quiz-progress")
	require.NoError(t, err, "keys are namespaced with the prefix")
	assert.Equal(t, `{}`, raw)

	value, found, err := store.Get(ctx, repository.ProgressKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{}`, value)

	require.NoError(t, store.Delete(ctx, repository.ProgressKey))
	assert.False(t, mr.Exists("quizday:quiz-progress"))
}

func TestKVStore_Ping(t *testing.T) {
	store, mr := newStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}

func TestDial_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := redis.Dial(context.Background(), redis.Options{Addr: addr})
	assert.Error(t, err)
}

func TestNewKVStore_AcceptsUniversalClient(t *testing.T) {
	mr := miniredis.RunT(t)
	var client goredis.UniversalClient = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewKVStore(client, "")
	require.NoError(t, store.Set(context.Background(), "plain", "v"))
	assert.True(t, mr.Exists("plain"))
}
