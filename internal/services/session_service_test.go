package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	apperrors "github.com/vytor/quizday/internal/errors"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/repository"
	"github.com/vytor/quizday/internal/session"
)

// slowProgress delays every save, holding a submit open long enough for a
// second one to overlap it.
type slowProgress struct {
	repository.ProgressRepository
	delay time.Duration
}

func (p slowProgress) Save(ctx context.Context, quizID string, attempt models.Attempt, snapshot *models.ProfileSnapshot) error {
	time.Sleep(p.delay)
	return p.ProgressRepository.Save(ctx, quizID, attempt, snapshot)
}

// flakyProgress fails saves while failing is set.
type flakyProgress struct {
	repository.ProgressRepository
	failing bool
}

func (p *flakyProgress) Save(ctx context.Context, quizID string, attempt models.Attempt, snapshot *models.ProfileSnapshot) error {
	if p.failing {
		return errors.New("storage unavailable")
	}
	return p.ProgressRepository.Save(ctx, quizID, attempt, snapshot)
}

const capitalsSlug = "general-knowledge-world-capitals"

type SessionServiceSuite struct {
	suite.Suite
	st  *testStack
	ctx context.Context
}

func (s *SessionServiceSuite) SetupTest() {
	s.st = newTestStack(s.T())
	s.ctx = context.Background()
}

func (s *SessionServiceSuite) withProfile() {
	_, err := s.st.profSvc.SaveProfile(s.ctx, "Alan", "2025")
	s.Require().NoError(err)
}

// answerAll starts the capitals quiz and answers it 1, 2, 2 (all correct).
func (s *SessionServiceSuite) answerAll(svc SessionService) string {
	view, err := svc.Start(s.ctx, capitalsSlug)
	s.Require().NoError(err)
	for i, opt := range []int{1, 2, 2} {
		_, err = svc.JumpTo(s.ctx, view.ID, i)
		s.Require().NoError(err)
		_, err = svc.Select(s.ctx, view.ID, opt)
		s.Require().NoError(err)
	}
	return view.ID
}

func (s *SessionServiceSuite) TestStartRequiresProfile() {
	_, err := s.st.sessSvc.Start(s.ctx, capitalsSlug)
	s.Assert().True(apperrors.IsProfileRequired(err))
	s.Assert().Equal(0, s.st.registry.Len())
}

func (s *SessionServiceSuite) TestStartUnknownQuiz() {
	s.withProfile()
	_, err := s.st.sessSvc.Start(s.ctx, "missing")
	s.Assert().True(apperrors.IsNotFound(err))
}

func (s *SessionServiceSuite) TestStartOpensFirstQuestion() {
	s.withProfile()
	view, err := s.st.sessSvc.Start(s.ctx, capitalsSlug)
	s.Require().NoError(err)

	s.Assert().NotEmpty(view.ID)
	s.Assert().Equal(session.PhaseInProgress, view.Phase)
	s.Assert().Equal(0, view.Current)
	s.Assert().True(view.IsFirst())
	s.Assert().Equal([]int{models.Unanswered, models.Unanswered, models.Unanswered}, view.Answers)
	s.Assert().Equal(0, view.ProgressPercent())
}

func (s *SessionServiceSuite) TestNavigationAndSelection() {
	s.withProfile()
	view, err := s.st.sessSvc.Start(s.ctx, capitalsSlug)
	s.Require().NoError(err)
	id := view.ID

	view, err = s.st.sessSvc.Previous(s.ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(0, view.Current)

	view, err = s.st.sessSvc.Select(s.ctx, id, 1)
	s.Require().NoError(err)
	s.Assert().Equal(1, view.Selected(0))
	s.Assert().Equal(0, view.Current)
	s.Assert().True(view.IsCorrect(0))
	s.Assert().False(view.IsCorrect(1))

	view, err = s.st.sessSvc.Select(s.ctx, id, 3)
	s.Require().NoError(err)
	s.Assert().Equal(3, view.Selected(0))
	s.Assert().False(view.IsCorrect(0))

	_, err = s.st.sessSvc.Select(s.ctx, id, 4)
	s.Assert().Equal(apperrors.ErrCodeValidation, apperrors.CodeOf(err))

	view, err = s.st.sessSvc.JumpTo(s.ctx, id, 2)
	s.Require().NoError(err)
	s.Assert().True(view.IsLast())

	view, err = s.st.sessSvc.Next(s.ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(2, view.Current)

	_, err = s.st.sessSvc.JumpTo(s.ctx, id, 3)
	s.Assert().Equal(apperrors.ErrCodeValidation, apperrors.CodeOf(err))
	view, err = s.st.sessSvc.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(2, view.Current)
}

func (s *SessionServiceSuite) TestSubmitIncompleteKeepsSession() {
	s.withProfile()
	view, err := s.st.sessSvc.Start(s.ctx, capitalsSlug)
	s.Require().NoError(err)
	_, err = s.st.sessSvc.Select(s.ctx, view.ID, 1)
	s.Require().NoError(err)

	_, err = s.st.sessSvc.Submit(s.ctx, view.ID)
	s.Assert().True(apperrors.IsIncomplete(err))

	again, err := s.st.sessSvc.Get(s.ctx, view.ID)
	s.Require().NoError(err)
	s.Assert().Equal(session.PhaseInProgress, again.Phase)
	s.Assert().Equal(1, again.Answered)
}

func (s *SessionServiceSuite) TestSubmitRecordsAndDiscards() {
	s.withProfile()
	view, err := s.st.sessSvc.Start(s.ctx, capitalsSlug)
	s.Require().NoError(err)
	id := view.ID

	for i, opt := range []int{1, 2, 0} {
		_, err = s.st.sessSvc.JumpTo(s.ctx, id, i)
		s.Require().NoError(err)
		_, err = s.st.sessSvc.Select(s.ctx, id, opt)
		s.Require().NoError(err)
	}

	attempt, err := s.st.sessSvc.Submit(s.ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(2, attempt.Score)
	s.Assert().Equal(3, attempt.TotalQuestions)

	_, err = s.st.sessSvc.Get(s.ctx, id)
	s.Assert().True(apperrors.IsNotFound(err))

	progress, err := s.st.progSvc.GetProgress(s.ctx, "gen-001")
	s.Require().NoError(err)
	s.Require().NotNil(progress)
	s.Assert().Len(progress.Attempts, 1)
}

func (s *SessionServiceSuite) TestConcurrentSubmitRecordsOnce() {
	s.withProfile()
	progSvc := NewProgressService(slowProgress{ProgressRepository: s.st.progress, delay: 50 * time.Millisecond}, s.st.profiles, 70)
	svc := NewSessionService(s.st.registry, s.st.quizSvc, s.st.profSvc, progSvc)
	id := s.answerAll(svc)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Submit(s.ctx, id)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.Assert().True(apperrors.IsNotFound(err) || apperrors.CodeOf(err) == apperrors.ErrCodeBadRequest, "unexpected error: %v", err)
	}
	s.Assert().Equal(1, succeeded)

	progress, err := s.st.progSvc.GetProgress(s.ctx, "gen-001")
	s.Require().NoError(err)
	s.Require().NotNil(progress)
	s.Assert().Len(progress.Attempts, 1)
}

func (s *SessionServiceSuite) TestSubmitDuringSaveIsRejected() {
	s.withProfile()
	view, err := s.st.sessSvc.Start(s.ctx, capitalsSlug)
	s.Require().NoError(err)

	_, err = s.st.registry.Do(view.ID, func(sess *session.Session) error {
		for i, opt := range []int{1, 2, 2} {
			if err := sess.JumpTo(i); err != nil {
				return err
			}
			if err := sess.SelectOption(opt); err != nil {
				return err
			}
		}
		_, err := sess.Submit()
		return err
	})
	s.Require().NoError(err)

	_, err = s.st.sessSvc.Submit(s.ctx, view.ID)
	s.Assert().Equal(apperrors.ErrCodeBadRequest, apperrors.CodeOf(err))
	done, err := s.st.progSvc.HasCompleted(s.ctx, "gen-001")
	s.Require().NoError(err)
	s.Assert().False(done)
}

func (s *SessionServiceSuite) TestSubmitSaveFailureReopensSession() {
	s.withProfile()
	flaky := &flakyProgress{ProgressRepository: s.st.progress, failing: true}
	progSvc := NewProgressService(flaky, s.st.profiles, 70)
	svc := NewSessionService(s.st.registry, s.st.quizSvc, s.st.profSvc, progSvc)
	id := s.answerAll(svc)

	_, err := svc.Submit(s.ctx, id)
	s.Assert().Equal(apperrors.ErrCodeInternal, apperrors.CodeOf(err))

	view, err := svc.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(session.PhaseInProgress, view.Phase)
	s.Assert().Equal([]int{1, 2, 2}, view.Answers)

	flaky.failing = false
	attempt, err := svc.Submit(s.ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(3, attempt.Score)
}

func (s *SessionServiceSuite) TestAbandonDropsSessionWithoutRecording() {
	s.withProfile()
	view, err := s.st.sessSvc.Start(s.ctx, capitalsSlug)
	s.Require().NoError(err)

	s.st.sessSvc.Abandon(s.ctx, view.ID)

	_, err = s.st.sessSvc.Get(s.ctx, view.ID)
	s.Assert().True(apperrors.IsNotFound(err))
	done, err := s.st.progSvc.HasCompleted(s.ctx, "gen-001")
	s.Require().NoError(err)
	s.Assert().False(done)
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceSuite))
}
