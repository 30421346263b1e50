// Package storage opens the configured key-value backend.
package storage

import (
	"context"
	"fmt"

	"github.com/vytor/quizday/internal/config"
	"github.com/vytor/quizday/internal/db"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/repository"
	"github.com/vytor/quizday/internal/repository/kv"
	"github.com/vytor/quizday/internal/repository/redis"
	"github.com/vytor/quizday/internal/repository/sqlite"
)

// Backend bundles the raw store with the typed repositories built on it.
type Backend struct {
	Store    repository.KVStore
	Profiles repository.ProfileRepository
	Progress repository.ProgressRepository
	close    func() error
}

// Close releases the underlying connection.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to the backend named by cfg.StorageBackend.
func Open(ctx context.Context, cfg config.Config) (*Backend, error) {
	log := logger.FromContext(ctx).WithPrefix("storage")

	var (
		store  repository.KVStore
		closer func() error
	)
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		store, closer = sqlite.NewKVStore(database.DB), database.Close
	case config.BackendRedis:
		client, err := redis.Dial(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		store, closer = redis.NewKVStore(client, cfg.RedisKeyPrefix), client.Close
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	log.Info("storage backend ready: %s", cfg.StorageBackend)
	return &Backend{
		Store:    store,
		Profiles: kv.NewProfileStore(store),
		Progress: kv.NewProgressStore(store),
		close:    closer,
	}, nil
}
