package api

import (
	"net/http"

	"github.com/vytor/quizday/internal/logger"
)

// handleHealth is the liveness probe. It always returns 200 OK while the
// process is serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns 200 once the storage backend answers a ping, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := s.Store.Ping(r.Context()); err != nil {
		log.Warn("readiness check failed - storage: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Storage unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
