package session

import (
	"errors"

	"github.com/vytor/quizday/internal/models"
)

// Phase is the lifecycle stage of a quiz session.
type Phase int

const (
	PhaseInfo       Phase = iota // Quiz overview, not started
	PhaseInProgress              // Questions being answered
	PhaseSubmitted               // Answers handed off for scoring; terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseInfo:
		return "info"
	case PhaseInProgress:
		return "in_progress"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	ErrNotInProgress = errors.New("session is not in progress")
	ErrOutOfRange    = errors.New("question index out of range")
	ErrInvalidOption = errors.New("option index out of range")
	ErrIncomplete    = errors.New("not every question has been answered")
)

// Session walks one user through one quiz. It is not safe for concurrent use;
// the Registry serialises access.
type Session struct {
	quiz    models.Quiz
	phase   Phase
	current int
	answers []int
}

// New returns a session for quiz in the Info phase.
func New(quiz models.Quiz) *Session {
	return &Session{quiz: quiz, phase: PhaseInfo}
}

// Start moves the session into progress with every answer unset.
func (s *Session) Start() error {
	if s.phase != PhaseInfo {
		return ErrNotInProgress
	}
	s.answers = make([]int, len(s.quiz.Questions))
	for i := range s.answers {
		s.answers[i] = models.Unanswered
	}
	s.current = 0
	s.phase = PhaseInProgress
	return nil
}

func (s *Session) Quiz() models.Quiz { return s.quiz }
func (s *Session) Phase() Phase      { return s.phase }
func (s *Session) Current() int      { return s.current }

func (s *Session) QuestionCount() int {
	return len(s.quiz.Questions)
}

// CurrentQuestion returns the question under the cursor.
func (s *Session) CurrentQuestion() models.Question {
	return s.quiz.Questions[s.current]
}

// SelectOption records an answer for the current question without moving.
func (s *Session) SelectOption(option int) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if option < 0 || option >= len(s.CurrentQuestion().Options) {
		return ErrInvalidOption
	}
	s.answers[s.current] = option
	return nil
}

// Next moves forward one question, stopping at the last.
func (s *Session) Next() {
	if s.phase == PhaseInProgress && s.current < len(s.quiz.Questions)-1 {
		s.current++
	}
}

// Previous moves back one question, stopping at the first.
func (s *Session) Previous() {
	if s.phase == PhaseInProgress && s.current > 0 {
		s.current--
	}
}

// JumpTo moves the cursor to index. Out-of-range indexes leave it untouched.
func (s *Session) JumpTo(index int) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if index < 0 || index >= len(s.quiz.Questions) {
		return ErrOutOfRange
	}
	s.current = index
	return nil
}

// Selected returns the recorded answer for question i, or Unanswered.
func (s *Session) Selected(i int) int {
	if i < 0 || i >= len(s.answers) {
		return models.Unanswered
	}
	return s.answers[i]
}

func (s *Session) IsAnswered(i int) bool {
	return s.Selected(i) != models.Unanswered
}

func (s *Session) IsCorrect(i int) bool {
	return s.IsAnswered(i) && s.answers[i] == s.quiz.Questions[i].CorrectAnswer
}

func (s *Session) AnsweredCount() int {
	n := 0
	for _, a := range s.answers {
		if a != models.Unanswered {
			n++
		}
	}
	return n
}

func (s *Session) AllAnswered() bool {
	return len(s.answers) > 0 && s.AnsweredCount() == len(s.answers)
}

// Answers returns a copy of the answer vector.
func (s *Session) Answers() []int {
	out := make([]int, len(s.answers))
	copy(out, s.answers)
	return out
}

// Submit finishes the session and returns the final answers. It fails with
// ErrIncomplete, leaving the session unchanged, while any question is
// unanswered.
func (s *Session) Submit() ([]int, error) {
	if s.phase != PhaseInProgress {
		return nil, ErrNotInProgress
	}
	if !s.AllAnswered() {
		return nil, ErrIncomplete
	}
	final := s.Answers()
	s.phase = PhaseSubmitted
	return final, nil
}

// Reopen puts a submitted session back in progress, keeping its answers and
// cursor. It lets a submit whose attempt could not be saved be retried.
func (s *Session) Reopen() error {
	if s.phase != PhaseSubmitted {
		return ErrNotInProgress
	}
	s.phase = PhaseInProgress
	return nil
}
