package services

import (
	"database/sql"
	"testing"

	"github.com/vytor/quizday/internal/catalog"
	"github.com/vytor/quizday/internal/repository"
	"github.com/vytor/quizday/internal/repository/kv"
	"github.com/vytor/quizday/internal/repository/sqlite"
	"github.com/vytor/quizday/internal/session"
	"github.com/vytor/quizday/internal/testutil"
)

type testStack struct {
	db       *sql.DB
	profiles repository.ProfileRepository
	progress repository.ProgressRepository
	quizSvc  QuizService
	profSvc  ProfileService
	progSvc  ProgressService
	sessSvc  SessionService
	registry *session.Registry
}

// newTestStack wires every service against an in-memory SQLite store and
// the built-in catalog.
func newTestStack(t *testing.T) *testStack {
	t.Helper()
	sqlDB := testutil.NewTestDB(t)
	t.Cleanup(func() { sqlDB.Close() })

	store := sqlite.NewKVStore(sqlDB)
	st := &testStack{
		db:       sqlDB,
		profiles: kv.NewProfileStore(store),
		progress: kv.NewProgressStore(store),
		registry: session.NewRegistry(0),
	}
	st.quizSvc = NewQuizService(catalog.Default())
	st.profSvc = NewProfileService(st.profiles)
	st.progSvc = NewProgressService(st.progress, st.profiles, 70)
	st.sessSvc = NewSessionService(st.registry, st.quizSvc, st.profSvc, st.progSvc)
	return st
}
