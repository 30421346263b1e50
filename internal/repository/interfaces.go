package repository

import (
	"context"

	"github.com/vytor/quizday/internal/models"
)

// Storage keys shared by every KVStore backend.
const (
	ProfileKey  = "user-profile"
	ProgressKey = "quiz-progress"
)

// KVStore is the device-local key-value storage port. Values are opaque
// serialized blobs; each Set replaces the whole value.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// ProfileRepository handles the single stored profile
type ProfileRepository interface {
	Get(ctx context.Context) (*models.Profile, error)
	Save(ctx context.Context, profile models.Profile) error
	Exists(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error
}

// ProgressRepository handles per-quiz attempt history
type ProgressRepository interface {
	Get(ctx context.Context, quizID string) (*models.Progress, error)
	GetAll(ctx context.Context) (map[string]models.Progress, error)
	Save(ctx context.Context, quizID string, attempt models.Attempt, snapshot *models.ProfileSnapshot) error
	Clear(ctx context.Context, quizID string) error
}
