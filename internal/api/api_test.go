package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobLobby/internal/applications"
	"jobLobby/internal/auth"
	"jobLobby/internal/config"
	"jobLobby/internal/database"
	"jobLobby/internal/database/dbtest"
	"jobLobby/internal/jobs"
	"jobLobby/internal/tasks"
	"jobLobby/internal/users"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) UploadFile(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return nil
}

func (m *memoryStorage) GeneratePresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key + "?X-Amz-Signature=abc", nil
}

func (m *memoryStorage) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type recordingEvents struct {
	mu     sync.Mutex
	events []tasks.ApplicationEventPayload
}

func (r *recordingEvents) Publish(_ context.Context, e tasks.ApplicationEventPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEvents) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Event)
	}
	return out
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	db      *gorm.DB
	auth    *auth.AuthService
	storage *memoryStorage
	events  *recordingEvents
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := dbtest.Open(t)
	authService, err := auth.NewAuthService([]byte("api-test-secret"), time.Hour)
	require.NoError(t, err)

	userStore := users.NewGormStore(db)
	jobStore := jobs.NewGormStore(db)
	storage := newMemoryStorage()
	events := &recordingEvents{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(config.APIConfig{}, logger, nil)
	RegisterRoutes(router, Dependencies{
		Auth:         authService,
		UserLoader:   userStore,
		Users:        users.NewService(userStore, authService, nil),
		Jobs:         jobs.NewService(jobStore),
		Applications: applications.NewService(applications.NewGormStore(db), jobStore, events, storage),
		Storage:      storage,
		Logger:       logger,
	})

	return &testServer{t: t, router: router, db: db, auth: authService, storage: storage, events: events}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(token, filename string, content []byte) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(s.t, err)
	_, err = part.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/profile/resume", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type account struct {
	ID    uint
	Token string
}

func (s *testServer) register(username, role string, extra map[string]any) account {
	s.t.Helper()
	body := map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	}
	for k, v := range extra {
		body[k] = v
	}
	rec := s.do(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID    uint   `json:"_id"`
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Token)
	return account{ID: resp.ID, Token: resp.Token}
}

func (s *testServer) createJob(token string, body map[string]any) uint {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/jobs", token, body)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		ID uint `json:"_id"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ID
}

func (s *testServer) apply(token string, jobID uint, extra map[string]any) *httptest.ResponseRecorder {
	s.t.Helper()
	body := map[string]any{"jobId": jobID}
	for k, v := range extra {
		body[k] = v
	}
	return s.do(http.MethodPost, "/api/applications", token, body)
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Message
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sampleJob(title string) map[string]any {
	return map[string]any{
		"title":        title,
		"description":  "Build APIs",
		"company_name": "Acme",
		"location":     "Remote",
	}
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Job Portal API is running...", rec.Body.String())

	rec = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "joblobby_http_requests_total")
}

func TestRegisterDuplicateIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "job_seeker", nil)

	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "alice2",
		"email":    "ALICE@example.com",
		"password": "secret123",
		"role":     "job_seeker",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User with this email or username already exists.", message(t, rec))
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "mallory",
		"email":    "mallory@example.com",
		"password": "secret123",
		"role":     "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid role. Must be one of: job_seeker, recruiter, admin.", message(t, rec))
}

func TestLoginFailuresAreIdentical(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "job_seeker", nil)

	unknown := s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "nobody@example.com", "password": "secret123"})
	wrong := s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "alice@example.com", "password": "nope-nope"})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())

	ok := s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "Alice@Example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
	assert.Equal(t, "Logged in successfully.", message(t, ok))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/jobs/my-jobs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token provided", message(t, rec))

	rec = s.do(http.MethodGet, "/api/auth/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, token failed or expired", message(t, rec))
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)
	seeker := s.register("alice", "job_seeker", nil)
	recruiter := s.register("rita", "recruiter", nil)
	jobID := s.createJob(recruiter.Token, sampleJob("Backend Engineer"))

	rec := s.do(http.MethodPost, "/api/jobs", seeker.Token, sampleJob("Nope"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User role job_seeker is not authorized to access this route", message(t, rec))

	rec = s.apply(recruiter.Token, jobID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User role recruiter is not authorized to access this route", message(t, rec))

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/applications/job/%d", jobID), seeker.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJobOwnership(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("rita", "recruiter", nil)
	other := s.register("rob", "recruiter", nil)
	jobID := s.createJob(owner.Token, sampleJob("Backend Engineer"))
	path := fmt.Sprintf("/api/jobs/%d", jobID)

	rec := s.do(http.MethodPut, path, other.Token, map[string]any{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to update this job.", message(t, rec))

	rec = s.do(http.MethodDelete, path, other.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to delete this job.", message(t, rec))

	rec = s.do(http.MethodPut, path, owner.Token, map[string]any{"salary_range": "$100k-$120k"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var job map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, "Backend Engineer", job["title"])
	assert.Equal(t, "$100k-$120k", job["salary_range"])

	rec = s.do(http.MethodPut, path, owner.Token, map[string]any{"requirements": []string{"Go"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"requirements":["Go"]`)

	rec = s.do(http.MethodPut, path, owner.Token, map[string]any{"requirements": []string{}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"requirements":[]`)
	assert.Contains(t, rec.Body.String(), `"responsibilities":[]`)

	rec = s.do(http.MethodPut, path, owner.Token, map[string]any{"job_type": "Gig"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, path, owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Job removed successfully.", message(t, rec))

	rec = s.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job not found.", message(t, rec))
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/jobs/not-a-number", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job not found.", message(t, rec))
}

func TestListJobsFilters(t *testing.T) {
	s := newTestServer(t)
	recruiter := s.register("rita", "recruiter", map[string]any{
		"company_details": map[string]any{"company_name": "Acme"},
	})
	s.createJob(recruiter.Token, sampleJob("Backend Engineer"))
	onsite := sampleJob("Frontend Engineer")
	onsite["location"] = "Berlin"
	onsite["salary_range"] = "60k"
	onsite["job_type"] = "Contract"
	s.createJob(recruiter.Token, onsite)

	all := decodeList(t, s.do(http.MethodGet, "/api/jobs", "", nil))
	require.Len(t, all, 2)
	assert.Equal(t, "Frontend Engineer", all[0]["title"])
	postedBy, ok := all[0]["postedBy"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "rita", postedBy["username"])
	assert.Equal(t, "Acme", postedBy["company_details"].(map[string]any)["company_name"])

	remote := decodeList(t, s.do(http.MethodGet, "/api/jobs?location=remote", "", nil))
	require.Len(t, remote, 1)
	assert.Equal(t, "Backend Engineer", remote[0]["title"])

	contract := decodeList(t, s.do(http.MethodGet, "/api/jobs?job_type=Contract", "", nil))
	require.Len(t, contract, 1)

	paid := decodeList(t, s.do(http.MethodGet, "/api/jobs?minSalary=10", "", nil))
	require.Len(t, paid, 1)
	assert.Equal(t, "Frontend Engineer", paid[0]["title"])

	mine := decodeList(t, s.do(http.MethodGet, "/api/jobs/my-jobs", recruiter.Token, nil))
	assert.Len(t, mine, 2)
}

func TestDuplicateApplicationIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	seeker := s.register("alice", "job_seeker", nil)
	recruiter := s.register("rita", "recruiter", nil)
	jobID := s.createJob(recruiter.Token, sampleJob("Backend Engineer"))

	require.Equal(t, http.StatusCreated, s.apply(seeker.Token, jobID, nil).Code)
	rec := s.apply(seeker.Token, jobID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You have already applied for this job.", message(t, rec))

	rec = s.apply(seeker.Token, 9999, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/applications", seeker.Token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Job ID is required to apply.", message(t, rec))
}

func TestInvalidStatusLeavesApplicationUnchanged(t *testing.T) {
	s := newTestServer(t)
	seeker := s.register("alice", "job_seeker", nil)
	recruiter := s.register("rita", "recruiter", nil)
	jobID := s.createJob(recruiter.Token, sampleJob("Backend Engineer"))

	rec := s.apply(seeker.Token, jobID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var app struct {
		ID uint `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	statusPath := fmt.Sprintf("/api/applications/%d/status", app.ID)

	rec = s.do(http.MethodPut, statusPath, recruiter.Token, map[string]any{"status": "hired"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, message(t, rec), "Invalid status.")

	list := decodeList(t, s.do(http.MethodGet, fmt.Sprintf("/api/applications/job/%d", jobID), recruiter.Token, nil))
	require.Len(t, list, 1)
	assert.Equal(t, "pending", list[0]["status"])

	other := s.register("rob", "recruiter", nil)
	rec = s.do(http.MethodPut, statusPath, other.Token, map[string]any{"status": "rejected"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApplicationLifecycle(t *testing.T) {
	s := newTestServer(t)
	recruiter := s.register("rita", "recruiter", map[string]any{
		"company_details": map[string]any{"company_name": "Acme"},
	})
	seeker := s.register("alice", "job_seeker", map[string]any{
		"profile": map[string]any{"name": "Alice", "resume_url": "https://cdn.example.com/alice.pdf"},
	})
	jobID := s.createJob(recruiter.Token, sampleJob("Backend Engineer"))

	listed := decodeList(t, s.do(http.MethodGet, "/api/jobs?location=remote", "", nil))
	require.Len(t, listed, 1)

	rec := s.do(http.MethodPost, "/api/applications", seeker.Token, map[string]any{
		"jobId":             fmt.Sprint(jobID),
		"cover_letter_text": "Hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var app struct {
		ID        uint   `json:"_id"`
		Status    string `json:"status"`
		ResumeURL string `json:"resume_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	assert.Equal(t, "pending", app.Status)
	assert.Equal(t, "https://cdn.example.com/alice.pdf", app.ResumeURL)

	applicants := decodeList(t, s.do(http.MethodGet, fmt.Sprintf("/api/applications/job/%d", jobID), recruiter.Token, nil))
	require.Len(t, applicants, 1)
	applicant := applicants[0]["applicant"].(map[string]any)
	assert.Equal(t, "alice", applicant["username"])
	assert.Equal(t, "Alice", applicant["profile"].(map[string]any)["name"])

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/applications/%d/resume", app.ID), recruiter.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"https://cdn.example.com/alice.pdf"}`, rec.Body.String())

	rec = s.do(http.MethodPut, fmt.Sprintf("/api/applications/%d/status", app.ID), recruiter.Token, map[string]any{"status": "interview"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	mine := decodeList(t, s.do(http.MethodGet, "/api/applications/my-applications", seeker.Token, nil))
	require.Len(t, mine, 1)
	assert.Equal(t, "interview", mine[0]["status"])
	assert.Equal(t, "Backend Engineer", mine[0]["job"].(map[string]any)["title"])

	intruder := s.register("eve", "job_seeker", nil)
	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/applications/%d", app.ID), intruder.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/applications/%d", app.ID), seeker.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Application removed successfully.", message(t, rec))

	mine = decodeList(t, s.do(http.MethodGet, "/api/applications/my-applications", seeker.Token, nil))
	assert.Empty(t, mine)

	assert.Equal(t, []string{tasks.EventApplied, tasks.EventStatusChanged, tasks.EventWithdrawn}, s.events.names())
}

func TestProfileReadAndUpdate(t *testing.T) {
	s := newTestServer(t)
	seeker := s.register("alice", "job_seeker", nil)

	rec := s.do(http.MethodPut, "/api/auth/profile", seeker.Token, map[string]any{
		"profile": map[string]any{"skills": []string{"go", "sql"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		Token   string `json:"token"`
		Message string `json:"message"`
		Profile struct {
			Skills []string `json:"skills"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.NotEmpty(t, updated.Token)
	assert.Equal(t, "Profile updated successfully.", updated.Message)
	assert.Equal(t, []string{"go", "sql"}, updated.Profile.Skills)

	rec = s.do(http.MethodGet, "/api/auth/profile", updated.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestPasswordGateAllowsOnlyProfile(t *testing.T) {
	s := newTestServer(t)
	admin := &database.User{
		Username:           "root",
		Email:              "root@example.com",
		PasswordHash:       "x",
		Role:               database.RoleAdmin,
		MustChangePassword: true,
	}
	require.NoError(t, s.db.Create(admin).Error)
	token, err := s.auth.GenerateToken(admin.ID, true)
	require.NoError(t, err)

	rec := s.do(http.MethodGet, "/api/jobs/my-jobs", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "password change required", message(t, rec))

	rec = s.do(http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPut, "/api/auth/profile", token, map[string]any{"password": "brand-new-pass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = s.do(http.MethodGet, "/api/jobs/my-jobs", resp.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User role admin is not authorized to access this route", message(t, rec))
}

func TestResumeUploadAndLink(t *testing.T) {
	s := newTestServer(t)
	seeker := s.register("alice", "job_seeker", nil)
	recruiter := s.register("rita", "recruiter", nil)

	rec := s.upload(recruiter.Token, "cv.pdf", []byte("%PDF-1.4 test"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.upload(seeker.Token, "cv.txt", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.upload(seeker.Token, "cv.pdf", []byte("not really a pdf"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.upload(seeker.Token, "cv.pdf", []byte("%PDF-1.4 first"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first struct {
		ObjectKey string `json:"objectKey"`
		ResumeURL string `json:"resume_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.True(t, strings.HasPrefix(first.ObjectKey, fmt.Sprintf("resumes/%d/", seeker.ID)))
	assert.True(t, strings.HasSuffix(first.ObjectKey, ".pdf"))
	assert.Equal(t, first.ObjectKey, first.ResumeURL)
	assert.Contains(t, s.storage.objects, first.ObjectKey)

	rec = s.do(http.MethodGet, "/api/auth/profile/resume", seeker.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://storage.test/"+first.ObjectKey)

	rec = s.upload(seeker.Token, "cv.docx", []byte("PK\x03\x04docx"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{first.ObjectKey}, s.storage.deleted)
	assert.NotContains(t, s.storage.objects, first.ObjectKey)
}

func TestResumeKeyValidation(t *testing.T) {
	assert.True(t, isValidResumeObjectKey(7, "resumes/7/abc.pdf"))
	assert.True(t, isValidResumeObjectKey(7, "resumes/7/abc.DOCX"))
	assert.False(t, isValidResumeObjectKey(7, "resumes/8/abc.pdf"))
	assert.False(t, isValidResumeObjectKey(7, "resumes/7/../8/abc.pdf"))
	assert.False(t, isValidResumeObjectKey(7, "resumes/7/abc.exe"))
	assert.False(t, isValidResumeObjectKey(7, ""))

	assert.True(t, sniffResume(".pdf", []byte("%PDF-1.7")))
	assert.True(t, sniffResume(".doc", []byte("\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1")))
	assert.False(t, sniffResume(".docx", []byte("%PDF-1.7")))
}
