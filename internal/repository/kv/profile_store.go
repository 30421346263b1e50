package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/repository"
)

type profileStore struct {
	kv repository.KVStore
}

// NewProfileStore creates a ProfileRepository over kv. The store accepts any
// profile; callers validate name and year.
func NewProfileStore(kv repository.KVStore) repository.ProfileRepository {
	return &profileStore{kv: kv}
}

func (s *profileStore) Get(ctx context.Context) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_store")

	raw, found, err := s.kv.Get(ctx, repository.ProfileKey)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if !found {
		log.Debug("no stored profile")
		return nil, nil
	}

	var rec profileRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Warn("discarding malformed profile record: %v", err)
		return nil, nil
	}
	if err := rec.validate(); err != nil {
		log.Warn("discarding invalid profile record: %v", err)
		return nil, nil
	}
	p := rec.model()
	return &p, nil
}

func (s *profileStore) Save(ctx context.Context, profile models.Profile) error {
	log := logger.FromContext(ctx).WithPrefix("profile_store")
	log.Debug("saving profile: name=%s", profile.Name)

	data, err := json.Marshal(toProfileRecord(profile))
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.kv.Set(ctx, repository.ProfileKey, string(data)); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Exists reports whether a profile blob is stored, without decoding it.
func (s *profileStore) Exists(ctx context.Context) (bool, error) {
	_, found, err := s.kv.Get(ctx, repository.ProfileKey)
	if err != nil {
		return false, fmt.Errorf("read profile: %w", err)
	}
	return found, nil
}

func (s *profileStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, repository.ProfileKey); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
