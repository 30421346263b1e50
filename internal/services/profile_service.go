package services

import (
	"context"
	"strings"
	"time"

	"github.com/vytor/quizday/internal/errors"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/repository"
)

// ProfileService handles profile-related business logic
type ProfileService interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
	HasProfile(ctx context.Context) (bool, error)
	SaveProfile(ctx context.Context, name, year string) (*models.Profile, error)
	ClearProfile(ctx context.Context) error
}

type profileService struct {
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo, now: time.Now}
}

func (s *profileService) GetProfile(ctx context.Context) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting profile")

	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return profile, nil
}

func (s *profileService) HasProfile(ctx context.Context) (bool, error) {
	exists, err := s.profileRepo.Exists(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to check profile: %v", err)
		return false, errors.NewInternalError(err)
	}
	return exists, nil
}

// SaveProfile validates and stores the profile, replacing any previous one.
func (s *profileService) SaveProfile(ctx context.Context, name, year string) (*models.Profile, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	year = strings.TrimSpace(year)
	if name == "" {
		return nil, errors.NewValidationError("name", "Name is required")
	}
	if year == "" {
		return nil, errors.NewValidationError("year", "Year is required")
	}

	profile := models.Profile{
		Name:      name,
		Year:      year,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	log.Debug("saving profile: name=%s", name)
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		log.Error("failed to save profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("profile saved: name=%s year=%s", name, year)
	return &profile, nil
}

func (s *profileService) ClearProfile(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug("clearing profile")

	if err := s.profileRepo.Clear(ctx); err != nil {
		log.Error("failed to clear profile: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
