package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		if s.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(s.RequestTimeout))
		}

		r.Get("/", s.handleHome)

		r.Get("/profile", s.handleProfilePage)
		r.Post("/profile", s.handleSaveProfile)
		r.Post("/profile/clear", s.handleClearProfile)

		r.Route("/quiz/{slug}", func(r chi.Router) {
			r.Get("/", s.handleQuiz)
			r.Post("/start", s.handleStartQuiz)
			r.Post("/answer", s.handleAnswer)
			r.Post("/next", s.handleNext)
			r.Post("/previous", s.handlePrevious)
			r.Post("/jump", s.handleJump)
			r.Post("/submit", s.handleSubmit)
			r.Post("/retake", s.handleRetake)
			r.Post("/abandon", s.handleAbandon)
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/quizzes", s.handleAPIQuizzes)
			r.Get("/quizzes/{slug}", s.handleAPIQuiz)
			r.Post("/quizzes/{slug}/score", s.handleAPIScore)
			r.Get("/categories", s.handleAPICategories)
			r.Get("/profile", s.handleAPIGetProfile)
			r.Put("/profile", s.handleAPIPutProfile)
			r.Delete("/profile", s.handleAPIDeleteProfile)
			r.Get("/progress", s.handleAPIAllProgress)
			r.Get("/progress/{quizID}", s.handleAPIProgress)
			r.Delete("/progress/{quizID}", s.handleAPIClearProgress)
		})
	})

	if s.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.Static))))
	}
	r.NotFound(s.handleNotFound)
	return r
}
