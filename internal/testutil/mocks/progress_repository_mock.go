package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizday/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, quizID string) (*models.Progress, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Progress), args.Error(1)
}

func (m *MockProgressRepository) GetAll(ctx context.Context) (map[string]models.Progress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.Progress), args.Error(1)
}

func (m *MockProgressRepository) Save(ctx context.Context, quizID string, attempt models.Attempt, snapshot *models.ProfileSnapshot) error {
	args := m.Called(ctx, quizID, attempt, snapshot)
	return args.Error(0)
}

func (m *MockProgressRepository) Clear(ctx context.Context, quizID string) error {
	args := m.Called(ctx, quizID)
	return args.Error(0)
}
