// Package redis stores QuizDay's key-value blobs in Redis.
package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/repository"
)

type kvStore struct {
	client goredis.UniversalClient
	prefix string
}

// NewKVStore creates a KVStore that namespaces every key with prefix.
func NewKVStore(client goredis.UniversalClient, prefix string) repository.KVStore {
	return &kvStore{client: client, prefix: prefix}
}

// Options describes a Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Dial connects to Redis and verifies the connection with a PING.
func Dial(ctx context.Context, opts Options) (*goredis.Client, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_redis")
	log.Info("connecting to redis: %s db=%d", opts.Addr, opts.DB)

	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("redis ping failed: %v", err)
		client.Close()
		return nil, err
	}
	return client, nil
}

func (s *kvStore) key(k string) string {
	return s.prefix + k
}

func (s *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_redis")
	log.Debug("getting key: %s", key)

	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		log.Error("failed to get key %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (s *kvStore) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("kv_redis")
	log.Debug("setting key: %s (%d bytes)", key, len(value))

	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		log.Error("failed to set key %s: %v", key, err)
		return err
	}
	return nil
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("kv_redis")
	log.Debug("deleting key: %s", key)

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		log.Error("failed to delete key %s: %v", key, err)
		return err
	}
	return nil
}

func (s *kvStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
