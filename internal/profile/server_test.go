package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "users.json"))
	return NewServer(store, filepath.Join(dir, "jobs.json"), zerolog.Nop())
}

func authed(req *http.Request) *http.Request {
	req.Header.Set(HeaderUserID, "u-1")
	req.Header.Set(HeaderUserName, "thandi")
	return req
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAuthStatusAnonymous(t *testing.T) {
	s := testServer(t)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/auth/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body["authenticated"] != false {
		t.Fatalf("expected authenticated=false, got %v", body)
	}
}

func TestAuthStatusCreatesUserOnFirstTouch(t *testing.T) {
	s := testServer(t)
	rec := do(t, s, authed(httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	user, ok, err := s.store.Get("u-1")
	if err != nil || !ok {
		t.Fatalf("user not created: %v, %v", ok, err)
	}
	if user.Name != "thandi" || user.SavedJobs == nil {
		t.Fatalf("unexpected new user: %+v", user)
	}
}

func TestProfileRequiresIdentity(t *testing.T) {
	s := testServer(t)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProfileUpdate(t *testing.T) {
	s := testServer(t)
	body := strings.NewReader(`{"email": "thandi@example.com"}`)
	rec := do(t, s, authed(httptest.NewRequest(http.MethodPost, "/api/user/profile", body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	user, _, err := s.store.Get("u-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if user.Email != "thandi@example.com" || !user.ProfileComplete {
		t.Fatalf("profile not updated: %+v", user)
	}
}

func TestSaveAndUnsaveJob(t *testing.T) {
	s := testServer(t)

	rec := do(t, s, authed(httptest.NewRequest(http.MethodPost, "/api/jobs/save",
		strings.NewReader(`{"job_id": "job-42"}`))))
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d", rec.Code)
	}

	// Saving the same job twice keeps one entry.
	do(t, s, authed(httptest.NewRequest(http.MethodPost, "/api/jobs/save",
		strings.NewReader(`{"job_id": "job-42"}`))))

	user, _, _ := s.store.Get("u-1")
	if len(user.SavedJobs) != 1 || user.SavedJobs[0] != "job-42" {
		t.Fatalf("unexpected saved jobs: %v", user.SavedJobs)
	}

	rec = do(t, s, authed(httptest.NewRequest(http.MethodPost, "/api/jobs/unsave",
		strings.NewReader(`{"job_id": "job-42"}`))))
	if rec.Code != http.StatusOK {
		t.Fatalf("unsave status = %d", rec.Code)
	}

	user, _, _ = s.store.Get("u-1")
	if len(user.SavedJobs) != 0 {
		t.Fatalf("job not removed: %v", user.SavedJobs)
	}
}

func TestSaveJobRejectsEmptyID(t *testing.T) {
	s := testServer(t)
	rec := do(t, s, authed(httptest.NewRequest(http.MethodPost, "/api/jobs/save",
		strings.NewReader(`{}`))))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestJobsFeedIsPublic(t *testing.T) {
	s := testServer(t)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty feed, got %s", body)
	}
}
