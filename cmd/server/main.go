package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/quizday/internal/api"
	"github.com/vytor/quizday/internal/catalog"
	"github.com/vytor/quizday/internal/config"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/services"
	"github.com/vytor/quizday/internal/session"
	"github.com/vytor/quizday/internal/storage"
	"github.com/vytor/quizday/web"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogColors),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("QuizDay Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("storage_backend=%s", cfg.StorageBackend)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("redis_addr=%s redis_db=%d", cfg.RedisAddr, cfg.RedisDB)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("pass_threshold=%d", cfg.PassThreshold)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("request_timeout=%s", cfg.RequestTimeout)

	quizzes := catalog.Default()
	if err := quizzes.Validate(); err != nil {
		log.Error("invalid quiz catalog: %v", err)
		os.Exit(1)
	}
	log.Info("catalog loaded: %d quizzes, %d questions", quizzes.Len(), quizzes.TotalQuestions())

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to open storage: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing storage")
		backend.Close()
	}()

	// Load templates
	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates(web.Files())
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}
	log.Debug("templates loaded successfully")

	// Initialize services
	quizService := services.NewQuizService(quizzes)
	profileService := services.NewProfileService(backend.Profiles)
	progressService := services.NewProgressService(backend.Progress, backend.Profiles, cfg.PassThreshold)
	registry := session.NewRegistry(cfg.SessionTTL)
	sessionService := services.NewSessionService(
		registry,
		quizService,
		profileService,
		progressService,
	)

	srv := &api.Server{
		QuizService:     quizService,
		ProfileService:  profileService,
		ProgressService: progressService,
		SessionService:  sessionService,
		Store:           backend.Store,
		Templates:       tmpl,
		Static:          web.Static(),
		RequestTimeout:  cfg.RequestTimeout,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		registry.RunJanitor(janitorCtx, time.Minute)
	}()

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping session janitor")
	stopJanitor()
	<-janitorDone

	log.Info("===========================================")
	log.Info("QuizDay Server Stopped")
	log.Info("===========================================")
}
