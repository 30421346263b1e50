package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/quizday/internal/catalog"
	"github.com/vytor/quizday/internal/config"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/services"
	"github.com/vytor/quizday/internal/session"
	"github.com/vytor/quizday/internal/storage"
)

// app holds what every subcommand needs once storage is open.
type app struct {
	cfg      config.Config
	backend  *storage.Backend
	quizzes  services.QuizService
	profiles services.ProfileService
	progress services.ProgressService
	sessions services.SessionService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "quizctl",
		Short:        "Inspect and manage a QuizDay installation",
		Long:         "quizctl reads the same storage as the QuizDay server: list the catalog, manage the profile and attempt history, or take a quiz in the terminal.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.backend != nil {
				return a.backend.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().String("backend", "", "Storage backend: sqlite or redis (overrides STORAGE_BACKEND)")
	root.PersistentFlags().String("db", "", "Path to SQLite database (overrides DB_PATH)")
	root.PersistentFlags().String("redis-addr", "", "Redis address (overrides REDIS_ADDR)")

	root.AddCommand(newCatalogCmd(a))
	root.AddCommand(newProfileCmd(a))
	root.AddCommand(newProgressCmd(a))
	root.AddCommand(newResetCmd(a))
	root.AddCommand(newPlayCmd(a))
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.StorageBackend = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("redis-addr"); v != "" {
		cfg.RedisAddr = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Keep the terminal readable; only problems go to stderr.
	logger.SetDefault(logger.New(
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithLevel(max(logger.ParseLevel(cfg.LogLevel), logger.WARN)),
		logger.WithColors(cfg.LogColors),
	))

	backend, err := storage.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	a.cfg = cfg
	a.backend = backend
	a.quizzes = services.NewQuizService(catalog.Default())
	a.profiles = services.NewProfileService(backend.Profiles)
	a.progress = services.NewProgressService(backend.Progress, backend.Profiles, cfg.PassThreshold)
	a.sessions = services.NewSessionService(session.NewRegistry(0), a.quizzes, a.profiles, a.progress)
	return nil
}
