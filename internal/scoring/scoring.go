package scoring

import (
	"math"

	"github.com/vytor/quizday/internal/models"
)

// DefaultPassThreshold is the percentage at or above which an attempt passes.
const DefaultPassThreshold = 70

type Result struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"total_questions"`
}

func (r Result) Percentage() int {
	return Percentage(r.Score, r.TotalQuestions)
}

// Score counts the answers that match their question's correct option.
// Missing trailing answers and the Unanswered sentinel never match.
func Score(quiz models.Quiz, answers []int) Result {
	res := Result{TotalQuestions: len(quiz.Questions)}
	for i, q := range quiz.Questions {
		if i < len(answers) && answers[i] != models.Unanswered && answers[i] == q.CorrectAnswer {
			res.Score++
		}
	}
	return res
}

// Percentage returns 100*score/total rounded half up. A zero total yields 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(score)/float64(total)*100 + 0.5))
}

func Passed(percentage, threshold int) bool {
	return percentage >= threshold
}

// BestAttempt returns the attempt with the highest score and its index. Ties
// go to the earliest attempt.
func BestAttempt(attempts []models.Attempt) (models.Attempt, int, bool) {
	if len(attempts) == 0 {
		return models.Attempt{}, -1, false
	}
	best := 0
	for i := 1; i < len(attempts); i++ {
		if attempts[i].Score > attempts[best].Score {
			best = i
		}
	}
	return attempts[best], best, true
}

// LatestAttempt returns the last attempt and its index.
func LatestAttempt(attempts []models.Attempt) (models.Attempt, int, bool) {
	if len(attempts) == 0 {
		return models.Attempt{}, -1, false
	}
	i := len(attempts) - 1
	return attempts[i], i, true
}

type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeSkipped   Outcome = "skipped"
)

// QuestionOutcome describes how one question of an attempt was answered.
type QuestionOutcome struct {
	Index    int             `json:"index"`
	Question models.Question `json:"question"`
	Selected int             `json:"selected"`
	Outcome  Outcome         `json:"outcome"`
}

func (o QuestionOutcome) Correct() bool { return o.Outcome == OutcomeCorrect }
func (o QuestionOutcome) Skipped() bool { return o.Outcome == OutcomeSkipped }

// Breakdown classifies every question of quiz against answers.
func Breakdown(quiz models.Quiz, answers []int) []QuestionOutcome {
	out := make([]QuestionOutcome, len(quiz.Questions))
	for i, q := range quiz.Questions {
		selected := models.Unanswered
		if i < len(answers) {
			selected = answers[i]
		}
		outcome := OutcomeIncorrect
		switch {
		case selected == models.Unanswered:
			outcome = OutcomeSkipped
		case selected == q.CorrectAnswer:
			outcome = OutcomeCorrect
		}
		out[i] = QuestionOutcome{Index: i, Question: q, Selected: selected, Outcome: outcome}
	}
	return out
}
