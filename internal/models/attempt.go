package models

import "time"

// Unanswered marks an answer slot with no selected option.
const Unanswered = -1

// Attempt is one completed run through a quiz. It is never mutated after
// creation.
type Attempt struct {
	CompletedAt    time.Time `json:"completed_at"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Answers        []int     `json:"answers"`
}

type ProfileSnapshot struct {
	Name string `json:"name"`
	Year string `json:"year"`
}

// Progress is the attempt history for one quiz, oldest first.
type Progress struct {
	QuizID   string           `json:"quiz_id"`
	Attempts []Attempt        `json:"attempts"`
	Profile  *ProfileSnapshot `json:"profile,omitempty"`
}

func (p Progress) HasAttempts() bool {
	return len(p.Attempts) > 0
}

// Latest returns the most recent attempt.
func (p Progress) Latest() (Attempt, bool) {
	if len(p.Attempts) == 0 {
		return Attempt{}, false
	}
	return p.Attempts[len(p.Attempts)-1], true
}

// Attempt returns the attempt at index i in chronological order.
func (p Progress) Attempt(i int) (Attempt, bool) {
	if i < 0 || i >= len(p.Attempts) {
		return Attempt{}, false
	}
	return p.Attempts[i], true
}
