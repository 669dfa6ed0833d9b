package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"loneus/cv-builder/internal/config"
	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/repositories"
	"loneus/cv-builder/internal/services"
)

type stubGemini struct {
	response string
	err      error
}

func (s *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.5}, s.err
}

func (s *stubGemini) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	return s.response, s.err
}

type stubIndex struct{}

func (stubIndex) InitCollection(ctx context.Context) error { return nil }

func (stubIndex) IndexProfile(ctx context.Context, profile *models.UserProfile) error { return nil }

func (stubIndex) Search(ctx context.Context, query services.CandidateQuery) ([]services.CandidateMatch, error) {
	return []services.CandidateMatch{{OwnerID: "seeker", FullName: "Ana Paula"}}, nil
}

type testServer struct {
	app    *fiber.App
	auth   services.AuthService
	gemini *stubGemini
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := config.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	bus := services.NewErrorBus()
	notifications := services.NewNotificationCenter(bus)
	dispatcher := services.NewDispatcher(bus, 1, 32, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	notifications.Start(ctx)
	dispatcher.Start(ctx)
	t.Cleanup(func() {
		dispatcher.Stop()
		notifications.Stop()
		cancel()
	})

	gateway := services.NewPersistenceGateway(
		repositories.NewProfileRepository(db),
		repositories.NewDocumentRepository(db),
		dispatcher,
		nil,
	)
	auth := services.NewAuthService(repositories.NewAccountRepository(db), gateway, "test-secret", time.Hour)
	gemini := &stubGemini{}
	uploads := services.NewUploadStore(t.TempDir(), 1<<20)

	app := fiber.New()
	Routes{
		Auth:          NewAuthHandler(auth),
		Profile:       NewProfileHandler(gateway, services.NewWizardStore(gateway)),
		Documents:     NewDocumentHandler(gateway),
		AI:            NewAIHandler(services.NewSuggestionService(gemini), gateway, uploads, services.NewPDFTextExtractor()),
		Navigation:    NewNavigationHandler(gateway),
		Notifications: NewNotificationHandler(notifications),
		Candidates:    NewCandidateHandler(services.NewCandidateSearch(stubIndex{}, gateway)),
	}.Register(app, auth)

	return &testServer{app: app, auth: auth, gemini: gemini}
}

// signUp registers through the service so the test can wait for the profile row.
func (s *testServer) signUp(t *testing.T, email string, role models.Role) string {
	t.Helper()

	result, err := s.auth.Register(context.Background(), email, "secret", role)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := result.Profile.Wait(ctx); err != nil {
		t.Fatalf("profile write error = %v", err)
	}
	return result.Token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, 10000)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("invalid JSON response %q: %v", raw, err)
		}
	} else if len(raw) > 0 && raw[0] == '[' {
		var list []interface{}
		json.Unmarshal(raw, &list)
		out["items"] = list
	}
	return resp.StatusCode, out
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "ana@example.com", "password": "secret", "role": "personal",
	})
	if status != fiber.StatusCreated || body["token"] == "" {
		t.Fatalf("register = %d %v", status, body)
	}

	status, _ = s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "ana@example.com", "password": "secret", "role": "personal",
	})
	if status != fiber.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", status)
	}

	status, _ = s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "bad", "password": "secret", "role": "personal",
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("invalid email status = %d, want 400", status)
	}

	status, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "nope",
	})
	if status != fiber.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", status)
	}

	status, body = s.do(t, http.MethodPost, "/api/v1/auth/guest", "", nil)
	if status != fiber.StatusCreated || body["anonymous"] != true {
		t.Errorf("guest = %d %v", status, body)
	}
}

func TestProtectedRoutesNeedAToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/profile", "/api/v1/navigation", "/api/v1/documents/cvs"} {
		if status, _ := s.do(t, http.MethodGet, path, "", nil); status != fiber.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, status)
		}
	}
}

func TestNavigationFollowsRole(t *testing.T) {
	s := newTestServer(t)

	seeker := s.signUp(t, "seeker@example.com", models.RoleJobSeeker)
	recruiter := s.signUp(t, "rh@example.com", models.RoleRecruiter)

	if _, body := s.do(t, http.MethodGet, "/api/v1/navigation", seeker, nil); body["kind"] != "jobSeeker" {
		t.Errorf("job-seeker navigation = %v", body)
	}
	if _, body := s.do(t, http.MethodGet, "/api/v1/navigation", recruiter, nil); body["kind"] != "recruiter" {
		t.Errorf("recruiter navigation = %v", body)
	}
}

func TestDocumentRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com", models.RoleJobSeeker)

	status, body := s.do(t, http.MethodPost, "/api/v1/documents/cvs", token, map[string]string{
		"title": "Accountant CV", "content": "# Ana Paula",
	})
	if status != fiber.StatusAccepted {
		t.Fatalf("create status = %d %v", status, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("create returned no id: %v", body)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		status, body = s.do(t, http.MethodGet, "/api/v1/documents/cvs/"+id, token, nil)
		if status == fiber.StatusOK || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status != fiber.StatusOK || body["title"] != "Accountant CV" {
		t.Fatalf("get = %d %v", status, body)
	}

	if status, _ := s.do(t, http.MethodPost, "/api/v1/documents/cvs", token, map[string]string{"title": "", "content": "x"}); status != fiber.StatusBadRequest {
		t.Errorf("empty title status = %d, want 400", status)
	}
	if status, _ := s.do(t, http.MethodGet, "/api/v1/documents/memos", token, nil); status != fiber.StatusBadRequest {
		t.Errorf("unknown kind status = %d, want 400", status)
	}
	if status, _ := s.do(t, http.MethodGet, "/api/v1/documents/coverLetters/"+id, token, nil); status != fiber.StatusNotFound {
		t.Errorf("wrong kind status = %d, want 404", status)
	}

	other := s.signUp(t, "other@example.com", models.RoleJobSeeker)
	if status, _ := s.do(t, http.MethodGet, "/api/v1/documents/cvs/"+id, other, nil); status != fiber.StatusNotFound {
		t.Errorf("other owner status = %d, want 404", status)
	}
}

func TestWizardRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com", models.RoleJobSeeker)

	if status, _ := s.do(t, http.MethodGet, "/api/v1/profile/wizard", token, nil); status != fiber.StatusNotFound {
		t.Errorf("wizard before begin status = %d, want 404", status)
	}

	status, body := s.do(t, http.MethodPost, "/api/v1/profile/wizard", token, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("begin status = %d %v", status, body)
	}
	record, _ := body["record"].(map[string]interface{})
	if record["email"] != "ana@example.com" {
		t.Errorf("wizard email = %v, want the account email", record["email"])
	}

	status, body = s.do(t, http.MethodPost, "/api/v1/profile/wizard/next", token, nil)
	if status != fiber.StatusUnprocessableEntity || body["errors"] == nil {
		t.Errorf("next on an empty section = %d %v", status, body)
	}

	s.do(t, http.MethodPatch, "/api/v1/profile/wizard", token, map[string]string{
		"fullName": "Ana Paula", "jobTitle": "Accountant",
	})
	status, body = s.do(t, http.MethodPost, "/api/v1/profile/wizard/next", token, nil)
	if status != fiber.StatusOK || body["step"] != float64(2) {
		t.Fatalf("next = %d %v", status, body)
	}

	status, body = s.do(t, http.MethodPost, "/api/v1/profile/wizard/entries/experiences", token, nil)
	if status != fiber.StatusCreated || body["index"] != float64(0) {
		t.Errorf("add entry = %d %v", status, body)
	}
	if status, _ := s.do(t, http.MethodDelete, "/api/v1/profile/wizard/entries/experiences/3", token, nil); status != fiber.StatusBadRequest {
		t.Errorf("remove missing entry status = %d, want 400", status)
	}
	if status, _ := s.do(t, http.MethodDelete, "/api/v1/profile/wizard/entries/experiences/0", token, nil); status != fiber.StatusOK {
		t.Errorf("remove entry status = %d, want 200", status)
	}

	if status, _ := s.do(t, http.MethodPost, "/api/v1/profile/wizard/submit", token, nil); status != fiber.StatusConflict {
		t.Errorf("submit from step 2 status = %d, want 409", status)
	}

	for i := 0; i < 3; i++ {
		if status, body := s.do(t, http.MethodPost, "/api/v1/profile/wizard/next", token, nil); status != fiber.StatusOK {
			t.Fatalf("next = %d %v", status, body)
		}
	}

	status, body = s.do(t, http.MethodPost, "/api/v1/profile/wizard/submit", token, nil)
	if status != fiber.StatusAccepted || body["status"] != models.StatusPending {
		t.Fatalf("submit = %d %v", status, body)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		_, body = s.do(t, http.MethodGet, "/api/v1/profile", token, nil)
		if body["fullName"] == "Ana Paula" || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if body["fullName"] != "Ana Paula" || body["firstName"] != "Ana" || body["role"] != "personal" {
		t.Errorf("stored profile = %v", body)
	}

	if status, _ := s.do(t, http.MethodDelete, "/api/v1/profile/wizard", token, nil); status != fiber.StatusNoContent {
		t.Errorf("discard status = %d, want 204", status)
	}
	if status, _ := s.do(t, http.MethodGet, "/api/v1/profile/wizard", token, nil); status != fiber.StatusNotFound {
		t.Errorf("wizard after discard status = %d, want 404", status)
	}
}

func TestAIRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com", models.RoleJobSeeker)

	if status, _ := s.do(t, http.MethodPost, "/api/v1/ai/ats-score", token, map[string]string{"cvText": ""}); status != fiber.StatusBadRequest {
		t.Errorf("empty CV status = %d, want 400", status)
	}

	s.gemini.response = `{"score": 81, "feedback": "Use standard headings."}`
	status, body := s.do(t, http.MethodPost, "/api/v1/ai/ats-score", token, map[string]string{"cvText": "Ana Paula, Accountant"})
	if status != fiber.StatusOK || body["score"] != float64(81) {
		t.Errorf("ats score = %d %v", status, body)
	}

	s.gemini.response = "not json"
	if status, _ := s.do(t, http.MethodPost, "/api/v1/ai/cv-content", token, map[string]string{"jobTitle": "Accountant"}); status != fiber.StatusBadGateway {
		t.Errorf("malformed model output status = %d, want 502", status)
	}

	s.gemini.response = `{"coverLetterContent": "Dear Hiring Manager"}`
	status, body = s.do(t, http.MethodPost, "/api/v1/ai/cover-letter", token, map[string]interface{}{
		"jobTitle": "Accountant", "companyName": "Sonangol",
		"userProfile": map[string]string{"fullName": "Ana Paula"},
	})
	if status != fiber.StatusOK || body["coverLetterContent"] != "Dear Hiring Manager" {
		t.Errorf("cover letter = %d %v", status, body)
	}
}

func TestCandidateSearchRoute(t *testing.T) {
	s := newTestServer(t)
	seeker := s.signUp(t, "seeker@example.com", models.RoleJobSeeker)
	recruiter := s.signUp(t, "rh@example.com", models.RoleRecruiter)

	query := map[string]interface{}{"keywords": "accountant", "location": "Luanda"}

	if status, _ := s.do(t, http.MethodPost, "/api/v1/candidates/search", seeker, query); status != fiber.StatusForbidden {
		t.Errorf("job-seeker search status = %d, want 403", status)
	}

	status, body := s.do(t, http.MethodPost, "/api/v1/candidates/search", recruiter, query)
	candidates, _ := body["candidates"].([]interface{})
	if status != fiber.StatusOK || len(candidates) != 1 {
		t.Errorf("recruiter search = %d %v", status, body)
	}
}

func TestNotificationRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com", models.RoleJobSeeker)

	status, body := s.do(t, http.MethodGet, "/api/v1/notifications", token, nil)
	items, _ := body["items"].([]interface{})
	if status != fiber.StatusOK || len(items) != 0 {
		t.Errorf("notifications = %d %v", status, body)
	}

	if status, _ := s.do(t, http.MethodDelete, "/api/v1/notifications/missing", token, nil); status != fiber.StatusNotFound {
		t.Errorf("dismiss missing status = %d, want 404", status)
	}
}
