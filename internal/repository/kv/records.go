// Package kv implements the profile and progress repositories on top of a
// repository.KVStore. Records are stored as JSON in the same shape the
// browser build kept in local storage.
package kv

import (
	"fmt"
	"strings"
	"time"

	"github.com/vytor/quizday/internal/models"
)

type profileRecord struct {
	Name      string `json:"name"`
	Year      string `json:"year"`
	CreatedAt int64  `json:"createdAt"`
}

type snapshotRecord struct {
	Name string `json:"name"`
	Year string `json:"year"`
}

type attemptRecord struct {
	CompletedAt    int64 `json:"completedAt"`
	Score          int   `json:"score"`
	TotalQuestions int   `json:"totalQuestions"`
	Answers        []int `json:"answers"`
}

type progressRecord struct {
	QuizID      string          `json:"quizId"`
	Attempts    []attemptRecord `json:"attempts"`
	UserProfile *snapshotRecord `json:"userProfile,omitempty"`
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func toProfileRecord(p models.Profile) profileRecord {
	return profileRecord{Name: p.Name, Year: p.Year, CreatedAt: p.CreatedAt.UnixMilli()}
}

func (r profileRecord) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("profile name is empty")
	}
	if strings.TrimSpace(r.Year) == "" {
		return fmt.Errorf("profile year is empty")
	}
	return nil
}

func (r profileRecord) model() models.Profile {
	return models.Profile{Name: r.Name, Year: r.Year, CreatedAt: fromMillis(r.CreatedAt)}
}

func toAttemptRecord(a models.Attempt) attemptRecord {
	answers := make([]int, len(a.Answers))
	copy(answers, a.Answers)
	return attemptRecord{
		CompletedAt:    a.CompletedAt.UnixMilli(),
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		Answers:        answers,
	}
}

func (r attemptRecord) validate() error {
	switch {
	case r.TotalQuestions <= 0:
		return fmt.Errorf("total questions %d must be positive", r.TotalQuestions)
	case r.Score < 0 || r.Score > r.TotalQuestions:
		return fmt.Errorf("score %d outside [0,%d]", r.Score, r.TotalQuestions)
	case len(r.Answers) != r.TotalQuestions:
		return fmt.Errorf("%d answers for %d questions", len(r.Answers), r.TotalQuestions)
	}
	for _, a := range r.Answers {
		if a < models.Unanswered {
			return fmt.Errorf("answer index %d below sentinel", a)
		}
	}
	return nil
}

func (r attemptRecord) model() models.Attempt {
	return models.Attempt{
		CompletedAt:    fromMillis(r.CompletedAt),
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Answers:        r.Answers,
	}
}

func (r progressRecord) model(key string) models.Progress {
	p := models.Progress{QuizID: r.QuizID, Attempts: make([]models.Attempt, 0, len(r.Attempts))}
	if p.QuizID == "" {
		p.QuizID = key
	}
	for _, a := range r.Attempts {
		p.Attempts = append(p.Attempts, a.model())
	}
	if r.UserProfile != nil {
		p.Profile = &models.ProfileSnapshot{Name: r.UserProfile.Name, Year: r.UserProfile.Year}
	}
	return p
}
