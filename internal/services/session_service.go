package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/quizday/internal/errors"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/session"
)

// SessionView is a read-only copy of a live session, safe to hand to
// templates after the registry lock is released.
type SessionView struct {
	ID       string
	Quiz     models.Quiz
	Phase    session.Phase
	Current  int
	Answers  []int
	Answered int
}

func (v SessionView) Total() int {
	return len(v.Quiz.Questions)
}

func (v SessionView) CurrentQuestion() models.Question {
	return v.Quiz.Questions[v.Current]
}

func (v SessionView) Selected(i int) int {
	if i < 0 || i >= len(v.Answers) {
		return models.Unanswered
	}
	return v.Answers[i]
}

func (v SessionView) IsAnswered(i int) bool {
	return v.Selected(i) != models.Unanswered
}

// IsCorrect reports whether question i has been answered with its correct option.
func (v SessionView) IsCorrect(i int) bool {
	return v.IsAnswered(i) && v.Answers[i] == v.Quiz.Questions[i].CorrectAnswer
}

func (v SessionView) IsFirst() bool { return v.Current == 0 }
func (v SessionView) IsLast() bool  { return v.Current == v.Total()-1 }

func (v SessionView) AllAnswered() bool {
	return v.Total() > 0 && v.Answered == v.Total()
}

// ProgressPercent is the share of answered questions, for the progress bar.
func (v SessionView) ProgressPercent() int {
	if v.Total() == 0 {
		return 0
	}
	return v.Answered * 100 / v.Total()
}

func viewOf(id string, s *session.Session) SessionView {
	return SessionView{
		ID:       id,
		Quiz:     s.Quiz(),
		Phase:    s.Phase(),
		Current:  s.Current(),
		Answers:  s.Answers(),
		Answered: s.AnsweredCount(),
	}
}

// SessionService drives in-progress quiz sessions
type SessionService interface {
	Start(ctx context.Context, slug string) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	Select(ctx context.Context, id string, option int) (*SessionView, error)
	Next(ctx context.Context, id string) (*SessionView, error)
	Previous(ctx context.Context, id string) (*SessionView, error)
	JumpTo(ctx context.Context, id string, index int) (*SessionView, error)
	Submit(ctx context.Context, id string) (*models.Attempt, error)
	Abandon(ctx context.Context, id string)
}

type sessionService struct {
	registry *session.Registry
	quizzes  QuizService
	profiles ProfileService
	progress ProgressService
}

// NewSessionService creates a new SessionService
func NewSessionService(registry *session.Registry, quizzes QuizService, profiles ProfileService, progress ProgressService) SessionService {
	return &sessionService{
		registry: registry,
		quizzes:  quizzes,
		profiles: profiles,
		progress: progress,
	}
}

// Start opens a fresh session on the first question. A profile must exist.
func (s *sessionService) Start(ctx context.Context, slug string) (*SessionView, error) {
	log := logger.FromContext(ctx)

	quiz, err := s.quizzes.GetQuiz(ctx, slug)
	if err != nil {
		return nil, err
	}
	ok, err := s.profiles.HasProfile(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug("start refused, no profile: quiz=%s", quiz.ID)
		return nil, errors.NewProfileRequiredError()
	}

	id, sess, err := s.registry.Create(*quiz)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Info("quiz started: quiz=%s session=%s", quiz.ID, id)
	view := viewOf(id, sess)
	return &view, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*SessionView, error) {
	return s.apply(ctx, id, func(*session.Session) error { return nil })
}

func (s *sessionService) Select(ctx context.Context, id string, option int) (*SessionView, error) {
	return s.apply(ctx, id, func(sess *session.Session) error {
		return sess.SelectOption(option)
	})
}

func (s *sessionService) Next(ctx context.Context, id string) (*SessionView, error) {
	return s.apply(ctx, id, func(sess *session.Session) error {
		sess.Next()
		return nil
	})
}

func (s *sessionService) Previous(ctx context.Context, id string) (*SessionView, error) {
	return s.apply(ctx, id, func(sess *session.Session) error {
		sess.Previous()
		return nil
	})
}

func (s *sessionService) JumpTo(ctx context.Context, id string, index int) (*SessionView, error) {
	return s.apply(ctx, id, func(sess *session.Session) error {
		return sess.JumpTo(index)
	})
}

// Submit scores and records the session's answers, then discards it. The
// session moves to Submitted under the registry lock before anything is saved,
// so a concurrent Submit of the same session gets a BAD_REQUEST and records
// nothing. If the attempt cannot be saved the session is reopened for retry.
func (s *sessionService) Submit(ctx context.Context, id string) (*models.Attempt, error) {
	log := logger.FromContext(ctx)

	var (
		quiz    models.Quiz
		answers []int
	)
	if _, err := s.apply(ctx, id, func(sess *session.Session) error {
		if sess.Phase() == session.PhaseInProgress && !sess.AllAnswered() {
			return errors.NewIncompleteError(sess.AnsweredCount(), sess.QuestionCount())
		}
		final, err := sess.Submit()
		if err != nil {
			return err
		}
		quiz = sess.Quiz()
		answers = final
		return nil
	}); err != nil {
		return nil, err
	}

	attempt, err := s.progress.RecordAttempt(ctx, quiz, answers)
	if err != nil {
		if _, reopenErr := s.registry.Do(id, func(sess *session.Session) error {
			return sess.Reopen()
		}); reopenErr != nil {
			log.Warn("could not reopen session after failed submit: id=%s err=%v", id, reopenErr)
		}
		return nil, err
	}

	s.registry.Remove(id)
	log.Info("quiz submitted: quiz=%s session=%s", quiz.ID, id)
	return attempt, nil
}

// Abandon drops the session without recording anything.
func (s *sessionService) Abandon(ctx context.Context, id string) {
	logger.FromContext(ctx).Debug("session abandoned: id=%s", id)
	s.registry.Remove(id)
}

func (s *sessionService) apply(ctx context.Context, id string, fn func(*session.Session) error) (*SessionView, error) {
	var view SessionView
	found, err := s.registry.Do(id, func(sess *session.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		view = viewOf(id, sess)
		return nil
	})
	if !found {
		return nil, errors.NewNotFoundError("session", id)
	}
	if err != nil {
		return nil, mapSessionError(err)
	}
	return &view, nil
}

func mapSessionError(err error) error {
	switch {
	case errors.CodeOf(err) != "":
		return err
	case stderrors.Is(err, session.ErrInvalidOption):
		return errors.NewValidationError("option", err.Error())
	case stderrors.Is(err, session.ErrOutOfRange):
		return errors.NewValidationError("question", err.Error())
	case stderrors.Is(err, session.ErrIncomplete):
		return errors.NewIncompleteError(0, 0)
	case stderrors.Is(err, session.ErrNotInProgress):
		return errors.NewBadRequestError(err.Error())
	default:
		return errors.NewInternalError(err)
	}
}
