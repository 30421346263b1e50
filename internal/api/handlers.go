package api

import (
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/repository"
	"github.com/vytor/quizday/internal/services"
)

type Server struct {
	QuizService     services.QuizService
	ProfileService  services.ProfileService
	ProgressService services.ProgressService
	SessionService  services.SessionService
	Store           repository.KVStore
	Templates       *template.Template
	Static          fs.FS
	RequestTimeout  time.Duration
}

type pageData map[string]any

// render executes a page template. The current profile is added to every page
// unless the handler already set it.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	s.renderStatus(w, r, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}
	if _, ok := data["profile"]; !ok {
		data["profile"] = s.currentProfile(r)
	}
	if _, ok := data["setup_profile"]; !ok {
		data["setup_profile"] = r.URL.Query().Get("setup-profile") == "true"
	}
	if _, ok := data["return_to"]; !ok {
		data["return_to"] = r.URL.RequestURI()
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
	}
}

// currentProfile reads the saved profile for page chrome. Storage failures
// render as "no profile".
func (s *Server) currentProfile(r *http.Request) *models.Profile {
	profile, err := s.ProfileService.GetProfile(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Warn("profile unavailable: %v", err)
		return nil
	}
	return profile
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
