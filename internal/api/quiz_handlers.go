package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/quizday/internal/errors"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/scoring"
	"github.com/vytor/quizday/internal/services"
)

const (
	viewInfo      = "info"
	viewQuestions = "questions"
	viewResults   = "results"
)

func quizURL(slug, view string) string {
	return fmt.Sprintf("/quiz/%s?view=%s", url.PathEscape(slug), view)
}

func (s *Server) quizFromRequest(w http.ResponseWriter, r *http.Request) (*models.Quiz, bool) {
	quiz, err := s.QuizService.GetQuiz(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleError(w, r, err)
		return nil, false
	}
	return quiz, true
}

// liveSession returns the caller's session if it belongs to quiz.
func (s *Server) liveSession(r *http.Request, quiz *models.Quiz) *services.SessionView {
	id := sessionID(r)
	if id == "" {
		return nil
	}
	view, err := s.SessionService.Get(r.Context(), id)
	if err != nil || view.Quiz.ID != quiz.ID {
		return nil
	}
	return view
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.quizFromRequest(w, r)
	if !ok {
		return
	}

	switch r.URL.Query().Get("view") {
	case viewQuestions:
		s.renderQuestions(w, r, quiz)
	case viewResults:
		s.renderResults(w, r, quiz)
	default:
		s.renderInfo(w, r, quiz)
	}
}

// loadProgress reads a quiz's history for display. Storage failures render
// as no history.
func (s *Server) loadProgress(r *http.Request, quiz *models.Quiz) *models.Progress {
	progress, err := s.ProgressService.GetProgress(r.Context(), quiz.ID)
	if err != nil {
		logger.FromContext(r.Context()).Warn("progress unavailable for %s: %v", quiz.ID, err)
		return nil
	}
	return progress
}

func (s *Server) renderInfo(w http.ResponseWriter, r *http.Request, quiz *models.Quiz) {
	completed, err := s.ProgressService.HasCompleted(r.Context(), quiz.ID)
	if err != nil {
		logger.FromContext(r.Context()).Warn("completion unavailable for %s: %v", quiz.ID, err)
	}
	var summary services.ProgressSummary
	if completed {
		summary = s.ProgressService.Summarize(s.loadProgress(r, quiz))
	}
	s.render(w, r, "pages/quiz_info.html", pageData{
		"quiz":      quiz,
		"completed": completed,
		"summary":   summary,
		"resume":    s.liveSession(r, quiz) != nil,
	})
}

func (s *Server) renderQuestions(w http.ResponseWriter, r *http.Request, quiz *models.Quiz) {
	view := s.liveSession(r, quiz)
	if view == nil {
		logger.FromContext(r.Context()).Debug("no live session for %s, back to info", quiz.ID)
		http.Redirect(w, r, quizURL(quiz.Slug, viewInfo), http.StatusSeeOther)
		return
	}
	s.render(w, r, "pages/quiz_questions.html", pageData{
		"quiz":       quiz,
		"session":    view,
		"question":   view.CurrentQuestion(),
		"incomplete": r.URL.Query().Get("incomplete") == "true",
	})
}

func (s *Server) renderResults(w http.ResponseWriter, r *http.Request, quiz *models.Quiz) {
	progress := s.loadProgress(r, quiz)
	summary := s.ProgressService.Summarize(progress)
	data := pageData{
		"quiz":    quiz,
		"summary": summary,
	}
	if summary.AttemptCount == 0 {
		s.render(w, r, "pages/quiz_results.html", data)
		return
	}

	index := summary.AttemptCount - 1
	if raw := r.URL.Query().Get("attempt"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n >= summary.AttemptCount {
			s.handleError(w, r, errors.NewNotFoundError("attempt", raw))
			return
		}
		index = n
	}

	attempt := progress.Attempts[index]
	percentage := scoring.Percentage(attempt.Score, attempt.TotalQuestions)
	data["attempt"] = attempt
	data["attempt_index"] = index
	data["percentage"] = percentage
	data["passed"] = scoring.Passed(percentage, s.ProgressService.PassThreshold())
	data["incorrect"] = attempt.TotalQuestions - attempt.Score
	data["breakdown"] = scoring.Breakdown(*quiz, attempt.Answers)
	s.render(w, r, "pages/quiz_results.html", data)
}

// startSession opens a new session for slug, replacing any the caller had.
// Without a profile the caller is sent to the setup form first.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, slug string) {
	log := logger.FromContext(r.Context())

	view, err := s.SessionService.Start(r.Context(), slug)
	if errors.IsProfileRequired(err) {
		log.Debug("profile required before starting %s", slug)
		http.Redirect(w, r, quizURL(slug, viewInfo)+"&setup-profile=true", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if old := sessionID(r); old != "" {
		s.SessionService.Abandon(r.Context(), old)
	}
	setSessionCookie(w, view.ID)
	http.Redirect(w, r, quizURL(view.Quiz.Slug, viewQuestions), http.StatusSeeOther)
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.quizFromRequest(w, r)
	if !ok {
		return
	}
	if s.liveSession(r, quiz) != nil {
		http.Redirect(w, r, quizURL(quiz.Slug, viewQuestions), http.StatusSeeOther)
		return
	}
	s.startSession(w, r, quiz.Slug)
}

// mutateSession applies fn to the caller's session for the quiz in the URL
// and redirects back to the question view.
func (s *Server) mutateSession(w http.ResponseWriter, r *http.Request, fn func(id string) error) {
	quiz, ok := s.quizFromRequest(w, r)
	if !ok {
		return
	}
	view := s.liveSession(r, quiz)
	if view == nil {
		http.Redirect(w, r, quizURL(quiz.Slug, viewInfo), http.StatusSeeOther)
		return
	}
	if err := fn(view.ID); err != nil {
		s.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, quizURL(quiz.Slug, viewQuestions), http.StatusSeeOther)
}

func formInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(r.FormValue(name))
	if err != nil {
		return 0, errors.NewBadRequestError(fmt.Sprintf("%s must be a number", name))
	}
	return n, nil
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(id string) error {
		option, err := formInt(r, "option")
		if err != nil {
			return err
		}
		_, err = s.SessionService.Select(r.Context(), id, option)
		return err
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(id string) error {
		_, err := s.SessionService.Next(r.Context(), id)
		return err
	})
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(id string) error {
		_, err := s.SessionService.Previous(r.Context(), id)
		return err
	})
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(id string) error {
		index, err := formInt(r, "index")
		if err != nil {
			return err
		}
		_, err = s.SessionService.JumpTo(r.Context(), id, index)
		return err
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	quiz, ok := s.quizFromRequest(w, r)
	if !ok {
		return
	}
	view := s.liveSession(r, quiz)
	if view == nil {
		http.Redirect(w, r, quizURL(quiz.Slug, viewInfo), http.StatusSeeOther)
		return
	}

	attempt, err := s.SessionService.Submit(r.Context(), view.ID)
	if errors.IsIncomplete(err) {
		log.Debug("submit with unanswered questions: %v", err)
		http.Redirect(w, r, quizURL(quiz.Slug, viewQuestions)+"&incomplete=true", http.StatusSeeOther)
		return
	}
	if errors.CodeOf(err) == errors.ErrCodeBadRequest {
		// Another submit of this session got there first.
		log.Debug("duplicate submit ignored: %v", err)
		http.Redirect(w, r, quizURL(quiz.Slug, viewResults), http.StatusSeeOther)
		return
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	log.Debug("submitted %s: score=%d/%d", quiz.ID, attempt.Score, attempt.TotalQuestions)
	clearSessionCookie(w)
	http.Redirect(w, r, quizURL(quiz.Slug, viewResults), http.StatusSeeOther)
}

// handleRetake wipes the quiz's history and starts over.
func (s *Server) handleRetake(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.quizFromRequest(w, r)
	if !ok {
		return
	}
	if err := s.ProgressService.Retake(r.Context(), quiz.ID); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.startSession(w, r, quiz.Slug)
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.quizFromRequest(w, r)
	if !ok {
		return
	}
	if id := sessionID(r); id != "" {
		s.SessionService.Abandon(r.Context(), id)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, quizURL(quiz.Slug, viewInfo), http.StatusSeeOther)
}
