package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/quizday/internal/errors"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/scoring"
	"github.com/vytor/quizday/internal/services"
)

type quizListItem struct {
	ID               string            `json:"id"`
	Slug             string            `json:"slug"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Category         string            `json:"category"`
	Difficulty       models.Difficulty `json:"difficulty"`
	QuestionCount    int               `json:"question_count"`
	EstimatedMinutes int               `json:"estimated_minutes"`
	Icon             string            `json:"icon"`
	Tags             []string          `json:"tags,omitempty"`
}

type questionResponse struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type quizResponse struct {
	quizListItem
	Questions []questionResponse `json:"questions"`
}

func listItem(q models.Quiz) quizListItem {
	return quizListItem{
		ID:               q.ID,
		Slug:             q.Slug,
		Title:            q.Title,
		Description:      q.Description,
		Category:         q.Category,
		Difficulty:       q.Difficulty,
		QuestionCount:    q.QuestionCount(),
		EstimatedMinutes: q.EstimatedMinutes,
		Icon:             q.Icon,
		Tags:             q.Tags,
	}
}

func (s *Server) handleAPIQuizzes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var quizzes []models.Quiz
	if category := r.URL.Query().Get("category"); category != "" {
		quizzes = s.QuizService.QuizzesByCategory(ctx, category)
	} else {
		quizzes = s.QuizService.ListQuizzes(ctx)
	}

	items := make([]quizListItem, 0, len(quizzes))
	for _, q := range quizzes {
		items = append(items, listItem(q))
	}
	writeJSON(w, r, http.StatusOK, items)
}

// handleAPIQuiz returns a quiz for answering; correct answers are withheld.
func (s *Server) handleAPIQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.quizFromRequest(w, r)
	if !ok {
		return
	}
	resp := quizResponse{quizListItem: listItem(*quiz)}
	for _, q := range quiz.Questions {
		resp.Questions = append(resp.Questions, questionResponse{ID: q.ID, Text: q.Text, Options: q.Options})
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.QuizService.Categories(r.Context()))
}

type scoreRequest struct {
	Answers []int `json:"answers"`
}

type scoreResponse struct {
	Attempt    models.Attempt            `json:"attempt"`
	Percentage int                       `json:"percentage"`
	Passed     bool                      `json:"passed"`
	Breakdown  []scoring.QuestionOutcome `json:"breakdown"`
}

// handleAPIScore scores a complete answer vector and records it as an attempt.
func (s *Server) handleAPIScore(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	quiz, ok := s.quizFromRequest(w, r)
	if !ok {
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("bad score body: %v", err)
		s.handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	attempt, err := s.ProgressService.RecordAttempt(r.Context(), *quiz, req.Answers)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	pct := scoring.Percentage(attempt.Score, attempt.TotalQuestions)
	writeJSON(w, r, http.StatusCreated, scoreResponse{
		Attempt:    *attempt,
		Percentage: pct,
		Passed:     scoring.Passed(pct, s.ProgressService.PassThreshold()),
		Breakdown:  scoring.Breakdown(*quiz, attempt.Answers),
	})
}

type profileRequest struct {
	Name string `json:"name"`
	Year string `json:"year"`
}

type profileResponse struct {
	models.Profile
	Initials string `json:"initials"`
}

func (s *Server) handleAPIGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.ProfileService.GetProfile(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if profile == nil {
		s.handleError(w, r, errors.NewNotFoundError("profile", "local"))
		return
	}
	writeJSON(w, r, http.StatusOK, profileResponse{Profile: *profile, Initials: profile.Initials()})
}

func (s *Server) handleAPIPutProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	profile, err := s.ProfileService.SaveProfile(r.Context(), req.Name, req.Year)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profileResponse{Profile: *profile, Initials: profile.Initials()})
}

func (s *Server) handleAPIDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.ProfileService.ClearProfile(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type progressResponse struct {
	Progress models.Progress          `json:"progress"`
	Summary  services.ProgressSummary `json:"summary"`
}

func (s *Server) handleAPIAllProgress(w http.ResponseWriter, r *http.Request) {
	all, err := s.ProgressService.GetAllProgress(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	out := make(map[string]progressResponse, len(all))
	for id, p := range all {
		out[id] = progressResponse{Progress: p, Summary: s.ProgressService.Summarize(&p)}
	}
	writeJSON(w, r, http.StatusOK, out)
}

// quizIDFromRequest checks the {quizID} URL parameter against the catalog.
func (s *Server) quizIDFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	quiz, err := s.QuizService.GetQuizByID(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		s.handleError(w, r, err)
		return "", false
	}
	return quiz.ID, true
}

func (s *Server) handleAPIProgress(w http.ResponseWriter, r *http.Request) {
	quizID, ok := s.quizIDFromRequest(w, r)
	if !ok {
		return
	}
	progress, err := s.ProgressService.GetProgress(r.Context(), quizID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if progress == nil {
		s.handleError(w, r, errors.NewNotFoundError("progress", quizID))
		return
	}
	writeJSON(w, r, http.StatusOK, progressResponse{Progress: *progress, Summary: s.ProgressService.Summarize(progress)})
}

func (s *Server) handleAPIClearProgress(w http.ResponseWriter, r *http.Request) {
	quizID, ok := s.quizIDFromRequest(w, r)
	if !ok {
		return
	}
	if err := s.ProgressService.Retake(r.Context(), quizID); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
