package api

import (
	"net/http"

	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/services"
)

type quizCard struct {
	Quiz     models.Quiz
	Summary  services.ProgressSummary
	Attempts int
}

func (c quizCard) Completed() bool { return c.Attempts > 0 }

type categorySection struct {
	Name    string
	Quizzes []quizCard
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	log.Debug("rendering home page")

	all, err := s.ProgressService.GetAllProgress(ctx)
	if err != nil {
		log.Warn("progress unavailable, rendering without history: %v", err)
		all = nil
	}

	var sections []categorySection
	for _, category := range s.QuizService.Categories(ctx) {
		section := categorySection{Name: category}
		for _, quiz := range s.QuizService.QuizzesByCategory(ctx, category) {
			card := quizCard{Quiz: quiz}
			if p, ok := all[quiz.ID]; ok {
				card.Summary = s.ProgressService.Summarize(&p)
				card.Attempts = card.Summary.AttemptCount
			}
			section.Quizzes = append(section.Quizzes, card)
		}
		sections = append(sections, section)
	}

	completed, err := s.ProgressService.CompletedCount(ctx)
	if err != nil {
		log.Warn("completed count unavailable: %v", err)
	}

	s.render(w, r, "pages/home.html", pageData{
		"sections":        sections,
		"total_quizzes":   len(s.QuizService.ListQuizzes(ctx)),
		"total_questions": s.QuizService.TotalQuestions(ctx),
		"completed_count": completed,
	})
}
