package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/vytor/quizday/internal/errors"
	"github.com/vytor/quizday/internal/logger"
)

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// handleError centralizes error handling for HTTP responses
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	if wantsJSON(r) {
		writeJSON(w, r, appErr.Status, map[string]any{
			"error": map[string]any{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	if appErr.Code == errors.ErrCodeNotFound {
		s.renderStatus(w, r, http.StatusNotFound, "pages/not_found.html", pageData{
			"message": appErr.Message,
		})
		return
	}
	s.renderStatus(w, r, appErr.Status, "pages/error.html", pageData{
		"status":  appErr.Status,
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.handleError(w, r, errors.NewNotFoundError("page", r.URL.Path))
}
