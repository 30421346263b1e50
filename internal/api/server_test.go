package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/quizday/internal/catalog"
	"github.com/vytor/quizday/internal/repository/kv"
	"github.com/vytor/quizday/internal/repository/sqlite"
	"github.com/vytor/quizday/internal/services"
	"github.com/vytor/quizday/internal/session"
	"github.com/vytor/quizday/internal/testutil"
	"github.com/vytor/quizday/internal/testutil/mocks"
	"github.com/vytor/quizday/web"
)

const capitals = "general-knowledge-world-capitals"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sqlDB := testutil.NewTestDB(t)
	t.Cleanup(func() { sqlDB.Close() })

	tmpl, err := LoadTemplates(web.Files())
	require.NoError(t, err)

	store := sqlite.NewKVStore(sqlDB)
	profiles := kv.NewProfileStore(store)
	progress := kv.NewProgressStore(store)

	quizSvc := services.NewQuizService(catalog.Default())
	profileSvc := services.NewProfileService(profiles)
	progressSvc := services.NewProgressService(progress, profiles, 70)
	return &Server{
		QuizService:     quizSvc,
		ProfileService:  profileSvc,
		ProgressService: progressSvc,
		SessionService:  services.NewSessionService(session.NewRegistry(0), quizSvc, profileSvc, progressSvc),
		Store:           store,
		Templates:       tmpl,
		Static:          web.Static(),
	}
}

type ServerSuite struct {
	suite.Suite
	srv    *httptest.Server
	client *http.Client
}

func (s *ServerSuite) SetupTest() {
	s.srv = httptest.NewServer(newTestServer(s.T()).Routes())
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *ServerSuite) TearDownTest() {
	s.srv.Close()
}

func (s *ServerSuite) do(method, path string, body io.Reader, contentType string) (*http.Response, string) {
	req, err := http.NewRequest(method, s.srv.URL+path, body)
	s.Require().NoError(err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, string(b)
}

func (s *ServerSuite) get(path string) (*http.Response, string) {
	return s.do(http.MethodGet, path, nil, "")
}

func (s *ServerSuite) post(path string, form url.Values) (*http.Response, string) {
	return s.do(http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (s *ServerSuite) sendJSON(method, path, body string) (*http.Response, string) {
	return s.do(method, path, strings.NewReader(body), "application/json")
}

func (s *ServerSuite) saveProfile() {
	resp, _ := s.post("/profile", url.Values{"name": {"Ada Lovelace"}, "year": {"2027"}, "return": {"/"}})
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
}

func (s *ServerSuite) TestHealthProbes() {
	resp, body := s.get("/healthz")
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal("OK", body)

	resp, body = s.get("/readyz")
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal("Ready", body)
}

func (s *ServerSuite) TestHomeListsCatalog() {
	resp, body := s.get("/")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Contains(body, "World Capitals")
	s.Assert().Contains(body, "Science")
	s.Assert().Contains(body, "Set up profile")
	s.Assert().NotEmpty(resp.Header.Get("X-Request-ID"))
}

func (s *ServerSuite) TestBannerImagesAreServed() {
	for _, quiz := range catalog.Default().All() {
		s.Require().NotEmpty(quiz.BannerImage, quiz.ID)

		resp, body := s.get(quiz.BannerImage)
		s.Assert().Equal(http.StatusOK, resp.StatusCode, quiz.BannerImage)
		s.Assert().Contains(body, "<svg", quiz.BannerImage)

		_, body = s.get("/quiz/" + quiz.Slug)
		s.Assert().Contains(body, `src="`+quiz.BannerImage+`"`)
	}
}

func (s *ServerSuite) TestUnknownQuizRendersNotFound() {
	resp, body := s.get("/quiz/does-not-exist")
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
	s.Assert().Contains(body, "Not Found")

	resp, body = s.get("/api/quizzes/does-not-exist")
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
	s.Assert().Contains(body, `"NOT_FOUND"`)
}

func (s *ServerSuite) TestStartWithoutProfileOpensSetup() {
	resp, _ := s.post("/quiz/"+capitals+"/start", nil)
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	s.Assert().Contains(loc, "setup-profile=true")

	resp, body := s.get(loc)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Contains(body, "Before you start")
	s.Assert().Contains(body, `name="start" value="`+capitals+`"`)

	// Saving from the overlay goes straight into the questions.
	resp, _ = s.post("/profile", url.Values{
		"name": {"Ada"}, "year": {"2027"}, "return": {loc}, "start": {capitals},
	})
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	s.Assert().Equal("/quiz/"+capitals+"?view=questions", resp.Header.Get("Location"))
}

func (s *ServerSuite) TestProfileFormRejectsBlankName() {
	resp, body := s.post("/profile", url.Values{"name": {"  "}, "year": {"2027"}})
	s.Assert().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Assert().Contains(body, "Please enter both")
}

func (s *ServerSuite) TestQuestionsWithoutSessionRedirectsToInfo() {
	resp, _ := s.get("/quiz/" + capitals + "?view=questions")
	s.Assert().Equal(http.StatusSeeOther, resp.StatusCode)
	s.Assert().Equal("/quiz/"+capitals+"?view=info", resp.Header.Get("Location"))
}

func (s *ServerSuite) TestFullQuizRun() {
	s.saveProfile()
	base := "/quiz/" + capitals

	resp, _ := s.post(base+"/start", nil)
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	_, body := s.get(base + "?view=questions")
	s.Assert().Contains(body, "Question 1 of 3")
	s.Assert().Contains(body, "What is the capital of France?")

	// Submitting early is refused and the answers so far are kept.
	s.post(base+"/answer", url.Values{"option": {"1"}})
	resp, _ = s.post(base+"/submit", nil)
	s.Assert().Contains(resp.Header.Get("Location"), "incomplete=true")

	s.post(base+"/next", nil)
	s.post(base+"/answer", url.Values{"option": {"2"}})
	s.post(base+"/jump", url.Values{"index": {"2"}})
	s.post(base+"/answer", url.Values{"option": {"0"}})

	_, body = s.get(base + "?view=questions")
	s.Assert().Contains(body, "Question 3 of 3")
	s.Assert().Contains(body, "3 answered")

	resp, _ = s.post(base+"/submit", nil)
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	s.Assert().Equal(base+"?view=results", resp.Header.Get("Location"))

	_, body = s.get(base + "?view=results")
	s.Assert().Contains(body, "67%")
	s.Assert().Contains(body, "Keep Practicing!")
	s.Assert().Contains(body, "2/3")
	s.Assert().Contains(body, "Completed by")
	s.Assert().Contains(body, "Class of 2027")

	resp, body = s.sendJSON(http.MethodGet, "/api/progress/gen-001", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var got progressResponse
	s.Require().NoError(json.Unmarshal([]byte(body), &got))
	s.Assert().Equal([]int{1, 2, 0}, got.Progress.Attempts[0].Answers)
	s.Assert().Equal(67, got.Summary.LatestPercentage)

	_, body = s.get("/")
	s.Assert().Contains(body, "Last score 67%")
}

func (s *ServerSuite) TestAnswerShowsFeedback() {
	s.saveProfile()
	base := "/quiz/" + capitals
	s.post(base+"/start", nil)

	_, body := s.get(base + "?view=questions")
	s.Assert().Contains(body, `action="/quiz/`+capitals+`/answer"`)
	s.Assert().NotContains(body, "Paris has been the capital")

	s.post(base+"/answer", url.Values{"option": {"1"}})
	_, body = s.get(base + "?view=questions")
	s.Assert().Contains(body, "Correct!")
	s.Assert().Contains(body, "Paris has been the capital of France since the 12th century.")
	s.Assert().Contains(body, "option-correct")
	s.Assert().NotContains(body, "option-incorrect")
	s.Assert().NotContains(body, `action="/quiz/`+capitals+`/answer"`, "answered question is locked")

	s.post(base+"/next", nil)
	s.post(base+"/answer", url.Values{"option": {"0"}})
	_, body = s.get(base + "?view=questions")
	s.Assert().Contains(body, "Question 2 of 3")
	s.Assert().Contains(body, "Not quite right")
	s.Assert().Contains(body, "Tokyo became Japan")
	s.Assert().Contains(body, "option-incorrect")
}

func (s *ServerSuite) TestDuplicateSubmitGoesToResults() {
	s.saveProfile()
	base := "/quiz/" + capitals
	s.post(base+"/start", nil)
	for i, opt := range []string{"1", "2", "2"} {
		s.post(base+"/jump", url.Values{"index": {strconv.Itoa(i)}})
		s.post(base+"/answer", url.Values{"option": {opt}})
	}
	stale := s.client.Jar.Cookies(mustParseURL(s.T(), s.srv.URL))

	resp, _ := s.post(base+"/submit", nil)
	s.Require().Equal(base+"?view=results", resp.Header.Get("Location"))

	// A second click still carrying the old session cookie records nothing.
	s.client.Jar.SetCookies(mustParseURL(s.T(), s.srv.URL), stale)
	resp, _ = s.post(base+"/submit", nil)
	s.Assert().Equal(http.StatusSeeOther, resp.StatusCode)

	resp, body := s.get("/api/progress/gen-001")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var got progressResponse
	s.Require().NoError(json.Unmarshal([]byte(body), &got))
	s.Assert().Len(got.Progress.Attempts, 1)
}

func (s *ServerSuite) TestResultsSelectsAttempt() {
	s.saveProfile()
	s.sendJSON(http.MethodPost, "/api/quizzes/"+capitals+"/score", `{"answers":[0,0,0]}`)
	s.sendJSON(http.MethodPost, "/api/quizzes/"+capitals+"/score", `{"answers":[1,2,2]}`)

	_, body := s.get("/quiz/" + capitals + "?view=results&attempt=0")
	s.Assert().Contains(body, "Keep Practicing!")
	s.Assert().Contains(body, "Attempt 1 ·")
	s.Assert().Contains(body, "All Attempts")

	_, body = s.get("/quiz/" + capitals + "?view=results")
	s.Assert().Contains(body, "100%")
	s.Assert().Contains(body, "Congratulations!")

	resp, _ := s.get("/quiz/" + capitals + "?view=results&attempt=7")
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *ServerSuite) TestCompletionShownOnHomeAndInfo() {
	_, body := s.get("/")
	s.Assert().Contains(body, "<strong>0</strong><span>Completed</span>")
	_, body = s.get("/quiz/" + capitals)
	s.Assert().Contains(body, "Start quiz")
	s.Assert().NotContains(body, "View results")

	s.saveProfile()
	s.sendJSON(http.MethodPost, "/api/quizzes/"+capitals+"/score", `{"answers":[1,2,2]}`)

	_, body = s.get("/")
	s.Assert().Contains(body, "<strong>1</strong><span>Completed</span>")
	_, body = s.get("/quiz/" + capitals)
	s.Assert().Contains(body, "Take again")
	s.Assert().Contains(body, "View results")
	s.Assert().Contains(body, "100%")
}

func (s *ServerSuite) TestAPIProgressUnknownQuiz() {
	resp, body := s.get("/api/progress/nope-999")
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
	s.Assert().Contains(body, "NOT_FOUND")

	resp, _ = s.sendJSON(http.MethodDelete, "/api/progress/nope-999", "")
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)

	resp, _ = s.sendJSON(http.MethodDelete, "/api/progress/gen-001", "")
	s.Assert().Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *ServerSuite) TestResultsWithoutHistory() {
	resp, body := s.get("/quiz/" + capitals + "?view=results")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Contains(body, "No Results Yet")
}

func (s *ServerSuite) TestRetakeClearsHistoryAndRestarts() {
	s.saveProfile()
	s.sendJSON(http.MethodPost, "/api/quizzes/"+capitals+"/score", `{"answers":[1,2,2]}`)

	resp, _ := s.post("/quiz/"+capitals+"/retake", nil)
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	s.Assert().Equal("/quiz/"+capitals+"?view=questions", resp.Header.Get("Location"))

	resp, _ = s.get("/api/progress/gen-001")
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *ServerSuite) TestAbandonDiscardsSession() {
	s.saveProfile()
	base := "/quiz/" + capitals
	s.post(base+"/start", nil)
	s.post(base+"/answer", url.Values{"option": {"1"}})

	resp, _ := s.post(base+"/abandon", nil)
	s.Assert().Equal(base+"?view=info", resp.Header.Get("Location"))

	resp, _ = s.get(base + "?view=questions")
	s.Assert().Equal(http.StatusSeeOther, resp.StatusCode)
}

func (s *ServerSuite) TestAPIQuizHidesAnswers() {
	resp, body := s.get("/api/quizzes/" + capitals)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Contains(body, `"question_count":3`)
	s.Assert().NotContains(body, "correct_answer")
}

func (s *ServerSuite) TestAPIListFiltersByCategory() {
	_, body := s.get("/api/quizzes?category=Science")
	var items []quizListItem
	s.Require().NoError(json.Unmarshal([]byte(body), &items))
	s.Assert().Len(items, 2)

	_, body = s.get("/api/categories")
	s.Assert().JSONEq(`["General Knowledge","Science"]`, body)
}

func (s *ServerSuite) TestAPIScoreRejectsIncomplete() {
	resp, body := s.sendJSON(http.MethodPost, "/api/quizzes/"+capitals+"/score", `{"answers":[1,-1,2]}`)
	s.Assert().Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	s.Assert().Contains(body, "INCOMPLETE_SUBMISSION")

	resp, _ = s.sendJSON(http.MethodPost, "/api/quizzes/"+capitals+"/score", `not json`)
	s.Assert().Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerSuite) TestAPIProfileLifecycle() {
	resp, _ := s.get("/api/profile")
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)

	resp, body := s.sendJSON(http.MethodPut, "/api/profile", `{"name":"Grace Hopper","year":"2026"}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Contains(body, `"initials":"GH"`)

	resp, body = s.get("/api/profile")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Contains(body, `"name":"Grace Hopper"`)

	resp, body = s.sendJSON(http.MethodPut, "/api/profile", `{"name":"","year":"2026"}`)
	s.Assert().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Assert().Contains(body, "VALIDATION_ERROR")

	resp, _ = s.do(http.MethodDelete, "/api/profile", nil, "")
	s.Assert().Equal(http.StatusNoContent, resp.StatusCode)
	resp, _ = s.get("/api/profile")
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func TestReadyReportsStorageFailure(t *testing.T) {
	srv := newTestServer(t)
	store := new(mocks.MockKVStore)
	store.On("Ping", mock.Anything).Return(errors.New("connection refused"))
	srv.Store = store

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSafeReturn(t *testing.T) {
	cases := map[string]string{
		"":                                 "/",
		"https://evil.example/":            "/",
		"//evil.example/":                  "/",
		"/quiz/x?view=info":                "/quiz/x?view=info",
		"/quiz/x?setup-profile=true":       "/quiz/x",
		"/quiz/x?setup-profile=true&view=": "/quiz/x?view=",
	}
	for in, want := range cases {
		require.Equal(t, want, safeReturn(in, "/"), in)
	}
}
