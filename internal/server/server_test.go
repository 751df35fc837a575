package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/WallCharmers/viktory-dashboard/internal/app"
	"github.com/WallCharmers/viktory-dashboard/internal/common"
	"github.com/WallCharmers/viktory-dashboard/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Auth.AppPassword = "test-password"
	cfg.Auth.JWTSecret = "test-jwt-secret"
	cfg.Storage.Badger.Path = filepath.Join(t.TempDir(), "badger")
	cfg.Cache.TTLSeconds = 0

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	t.Cleanup(func() { application.Close() })

	return New(application)
}

func TestHealthRoute(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("health status = %q", body["status"])
	}
}

func TestCorrelationIDHeader(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("correlation ID header missing")
	}
}

func TestCorrelationIDEchoed(t *testing.T) {
	srv := testServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.Header.Set("X-Request-ID", "req-12345")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)

	if got := w.Header().Get("X-Correlation-ID"); got != "req-12345" {
		t.Errorf("correlation ID = %q, want req-12345", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	checks := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}
	for header, want := range checks {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("CSP header missing")
	}
}

func TestLoginPageServed(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/auth/login") {
		t.Error("login form missing from root page")
	}
}

func TestDashboardGated(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location = %q", loc)
	}
}

func TestLoginFlowEndToEnd(t *testing.T) {
	srv := testServer(t)

	form := url.Values{}
	form.Set("password", "test-password")
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("redirect location = %q", loc)
	}

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "viktory_session" {
			session = c
		}
	}
	if session == nil {
		t.Fatal("session cookie not set")
	}

	// Follow the redirect with the session cookie
	dash := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	dash.AddCookie(session)

	w2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w2, dash)

	if w2.Code != http.StatusOK {
		t.Fatalf("expected dashboard 200 with session, got %d", w2.Code)
	}
	// No credentials configured, so the page reports demo data
	if !strings.Contains(w2.Body.String(), "source-demo") {
		t.Error("expected demo badge without credentials")
	}
}

func TestLoginWrongPasswordEndToEnd(t *testing.T) {
	srv := testServer(t)

	form := url.Values{}
	form.Set("password", "nope")
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)

	if loc := w.Header().Get("Location"); loc != "/?error=invalid_password" {
		t.Errorf("redirect location = %q", loc)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "viktory_session" {
			t.Error("session cookie set on failed login")
		}
	}
}

func TestCSRFBlocksUnsafePost(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/metrics", nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for POST without CSRF token, got %d", w.Code)
	}
}

func TestUnknownAPIRouteIs404JSON(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestMetricsAPIRequiresSession(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
