package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/vytor/quizday/internal/errors"
	"github.com/vytor/quizday/internal/logger"
)

// safeReturn only allows redirects back into this site.
func safeReturn(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	// The setup flag opened the form; drop it so we do not loop back into it.
	q := u.Query()
	q.Del("setup-profile")
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Server) handleProfilePage(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Debug("rendering profile page")
	s.render(w, r, "pages/profile.html", pageData{
		"return_to": safeReturn(r.URL.Query().Get("return"), "/"),
	})
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		s.handleError(w, r, errors.NewBadRequestError("invalid form"))
		return
	}
	returnTo := safeReturn(r.PostFormValue("return"), "/")

	_, err := s.ProfileService.SaveProfile(r.Context(), r.PostFormValue("name"), r.PostFormValue("year"))
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeValidation {
			log.Debug("profile form rejected: %v", err)
			s.renderStatus(w, r, http.StatusBadRequest, "pages/profile.html", pageData{
				"return_to":  returnTo,
				"form_error": "Please enter both your name and your year.",
				"form_name":  r.PostFormValue("name"),
				"form_year":  r.PostFormValue("year"),
				"start_slug": r.PostFormValue("start"),
			})
			return
		}
		s.handleError(w, r, err)
		return
	}

	// Setting up a profile from a quiz page continues straight into the quiz.
	if slug := r.PostFormValue("start"); slug != "" {
		s.startSession(w, r, slug)
		return
	}

	log.Debug("profile saved, returning to %s", returnTo)
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

func (s *Server) handleClearProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.ProfileService.ClearProfile(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
