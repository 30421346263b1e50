package services

import (
	"context"
	"time"

	"github.com/vytor/quizday/internal/errors"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/repository"
	"github.com/vytor/quizday/internal/scoring"
)

// ProgressSummary is the derived view of one quiz's history.
type ProgressSummary struct {
	QuizID            string                  `json:"quiz_id"`
	AttemptCount      int                     `json:"attempt_count"`
	Latest            *models.Attempt         `json:"latest,omitempty"`
	LatestPercentage  int                     `json:"latest_percentage"`
	Best              *models.Attempt         `json:"best,omitempty"`
	BestIndex         int                     `json:"best_index"`
	BestPercentage    int                     `json:"best_percentage"`
	Passed            bool                    `json:"passed"`
	Profile           *models.ProfileSnapshot `json:"profile,omitempty"`
	AttemptPercentage []int                   `json:"attempt_percentages"`
}

// ProgressService handles attempt history
type ProgressService interface {
	GetProgress(ctx context.Context, quizID string) (*models.Progress, error)
	GetAllProgress(ctx context.Context) (map[string]models.Progress, error)
	HasCompleted(ctx context.Context, quizID string) (bool, error)
	CompletedCount(ctx context.Context) (int, error)
	RecordAttempt(ctx context.Context, quiz models.Quiz, answers []int) (*models.Attempt, error)
	Retake(ctx context.Context, quizID string) error
	Summarize(progress *models.Progress) ProgressSummary
	PassThreshold() int
}

type progressService struct {
	progressRepo  repository.ProgressRepository
	profileRepo   repository.ProfileRepository
	passThreshold int
	now           func() time.Time
}

// NewProgressService creates a new ProgressService
func NewProgressService(progressRepo repository.ProgressRepository, profileRepo repository.ProfileRepository, passThreshold int) ProgressService {
	return &progressService{
		progressRepo:  progressRepo,
		profileRepo:   profileRepo,
		passThreshold: passThreshold,
		now:           time.Now,
	}
}

func (s *progressService) PassThreshold() int {
	return s.passThreshold
}

func (s *progressService) GetProgress(ctx context.Context, quizID string) (*models.Progress, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting progress: quiz_id=%s", quizID)

	progress, err := s.progressRepo.Get(ctx, quizID)
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return progress, nil
}

func (s *progressService) GetAllProgress(ctx context.Context) (map[string]models.Progress, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting all progress")

	all, err := s.progressRepo.GetAll(ctx)
	if err != nil {
		log.Error("failed to get all progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return all, nil
}

func (s *progressService) HasCompleted(ctx context.Context, quizID string) (bool, error) {
	progress, err := s.GetProgress(ctx, quizID)
	if err != nil {
		return false, err
	}
	return progress != nil && progress.HasAttempts(), nil
}

func (s *progressService) CompletedCount(ctx context.Context) (int, error) {
	all, err := s.GetAllProgress(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range all {
		if p.HasAttempts() {
			n++
		}
	}
	return n, nil
}

// RecordAttempt scores a complete answer vector and appends it to the quiz's
// history together with a snapshot of the current profile.
func (s *progressService) RecordAttempt(ctx context.Context, quiz models.Quiz, answers []int) (*models.Attempt, error) {
	log := logger.FromContext(ctx)

	if len(answers) != quiz.QuestionCount() {
		return nil, errors.NewValidationError("answers", "one answer per question is required")
	}
	answered := 0
	for i, a := range answers {
		if a == models.Unanswered {
			continue
		}
		if a < 0 || a >= len(quiz.Questions[i].Options) {
			return nil, errors.NewValidationError("answers", "option index out of range")
		}
		answered++
	}
	if answered != len(answers) {
		return nil, errors.NewIncompleteError(answered, len(answers))
	}

	result := scoring.Score(quiz, answers)
	attempt := models.Attempt{
		CompletedAt:    s.now().UTC().Truncate(time.Millisecond),
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Answers:        append([]int(nil), answers...),
	}

	var snapshot *models.ProfileSnapshot
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		log.Warn("failed to read profile for snapshot: %v", err)
	} else if profile != nil {
		snap := profile.Snapshot()
		snapshot = &snap
	}

	if err := s.progressRepo.Save(ctx, quiz.ID, attempt, snapshot); err != nil {
		log.Error("failed to save attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("attempt recorded: quiz=%s score=%d/%d (%d%%)", quiz.ID, result.Score, result.TotalQuestions, result.Percentage())
	return &attempt, nil
}

// Retake clears the quiz's history so the next attempt starts fresh.
func (s *progressService) Retake(ctx context.Context, quizID string) error {
	log := logger.FromContext(ctx)
	log.Debug("clearing progress for retake: quiz_id=%s", quizID)

	if err := s.progressRepo.Clear(ctx, quizID); err != nil {
		log.Error("failed to clear progress: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *progressService) Summarize(progress *models.Progress) ProgressSummary {
	var sum ProgressSummary
	sum.BestIndex = -1
	if progress == nil {
		return sum
	}
	sum.QuizID = progress.QuizID
	sum.AttemptCount = len(progress.Attempts)
	sum.Profile = progress.Profile
	for _, a := range progress.Attempts {
		sum.AttemptPercentage = append(sum.AttemptPercentage, scoring.Percentage(a.Score, a.TotalQuestions))
	}
	if latest, _, ok := scoring.LatestAttempt(progress.Attempts); ok {
		sum.Latest = &latest
		sum.LatestPercentage = scoring.Percentage(latest.Score, latest.TotalQuestions)
		sum.Passed = scoring.Passed(sum.LatestPercentage, s.passThreshold)
	}
	if best, idx, ok := scoring.BestAttempt(progress.Attempts); ok {
		sum.Best = &best
		sum.BestIndex = idx
		sum.BestPercentage = scoring.Percentage(best.Score, best.TotalQuestions)
	}
	return sum
}
