package services

import (
	"context"

	"github.com/vytor/quizday/internal/catalog"
	"github.com/vytor/quizday/internal/errors"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
)

// QuizService exposes the quiz catalog
type QuizService interface {
	ListQuizzes(ctx context.Context) []models.Quiz
	Categories(ctx context.Context) []string
	QuizzesByCategory(ctx context.Context, category string) []models.Quiz
	GetQuiz(ctx context.Context, slug string) (*models.Quiz, error)
	GetQuizByID(ctx context.Context, id string) (*models.Quiz, error)
	TotalQuestions(ctx context.Context) int
}

type quizService struct {
	catalog *catalog.Catalog
}

// NewQuizService creates a new QuizService
func NewQuizService(c *catalog.Catalog) QuizService {
	return &quizService{catalog: c}
}

func (s *quizService) ListQuizzes(ctx context.Context) []models.Quiz {
	return s.catalog.All()
}

func (s *quizService) Categories(ctx context.Context) []string {
	return s.catalog.GetAllCategories()
}

func (s *quizService) QuizzesByCategory(ctx context.Context, category string) []models.Quiz {
	return s.catalog.GetQuizzesByCategory(category)
}

func (s *quizService) GetQuiz(ctx context.Context, slug string) (*models.Quiz, error) {
	quiz, ok := s.catalog.GetQuizBySlug(slug)
	if !ok {
		logger.FromContext(ctx).Debug("quiz not found: slug=%s", slug)
		return nil, errors.NewNotFoundError("quiz", slug)
	}
	return quiz, nil
}

func (s *quizService) GetQuizByID(ctx context.Context, id string) (*models.Quiz, error) {
	quiz, ok := s.catalog.GetQuizByID(id)
	if !ok {
		return nil, errors.NewNotFoundError("quiz", id)
	}
	return quiz, nil
}

func (s *quizService) TotalQuestions(ctx context.Context) int {
	return s.catalog.TotalQuestions()
}
