package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/WallCharmers/viktory-dashboard/internal/common"
	"github.com/WallCharmers/viktory-dashboard/internal/models"
)

func TestDashboardRedirectsWhenNotLoggedIn(t *testing.T) {
	fetcher := &stubFetcher{status: models.SourceDemo}
	h := NewDashboardHandler(common.NewSilentLogger(), testSecret, fetcher)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location = %q", loc)
	}
	if fetcher.calls != 0 {
		t.Error("fetch must not run before the password gate passes")
	}
}

func TestDashboardInvalidPeriodRedirects(t *testing.T) {
	fetcher := &stubFetcher{status: models.SourceDemo}
	h := NewDashboardHandler(common.NewSilentLogger(), testSecret, fetcher)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authedRequest(t, "/dashboard?period=decade"))

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("redirect location = %q", loc)
	}
}

func TestDashboardRenders(t *testing.T) {
	fetcher := &stubFetcher{status: models.SourceLive}
	h := NewDashboardHandler(common.NewSilentLogger(), testSecret, fetcher)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authedRequest(t, "/dashboard?period=week"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected 1 fetch, got %d", fetcher.calls)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Viktory Dashboard") {
		t.Error("page title missing")
	}
	if !strings.Contains(body, "source-live") {
		t.Error("source badge missing")
	}
	if !strings.Contains(body, "$1,847.23") {
		t.Error("formatted revenue missing")
	}
	if !strings.Contains(body, "This Week") {
		t.Error("period selector missing")
	}
	if !strings.Contains(body, "/auth/logout") {
		t.Error("logout link missing")
	}
}

func TestDashboardShowsDemoBadge(t *testing.T) {
	fetcher := &stubFetcher{status: models.SourceDemo}
	h := NewDashboardHandler(common.NewSilentLogger(), testSecret, fetcher)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authedRequest(t, "/dashboard"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "source-demo") {
		t.Error("demo badge missing")
	}
}

func TestServeLoginPage(t *testing.T) {
	h := NewPageHandler(common.NewSilentLogger(), testSecret)

	w := httptest.NewRecorder()
	h.ServeLogin(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `action="/auth/login"`) {
		t.Error("login form missing")
	}
	if strings.Contains(body, "Incorrect password") {
		t.Error("error banner must not render without error flag")
	}
}

func TestServeLoginShowsError(t *testing.T) {
	h := NewPageHandler(common.NewSilentLogger(), testSecret)

	w := httptest.NewRecorder()
	h.ServeLogin(w, httptest.NewRequest(http.MethodGet, "/?error=invalid_password", nil))

	if !strings.Contains(w.Body.String(), "Incorrect password") {
		t.Error("error banner missing")
	}
}

func TestServeLoginRedirectsActiveSession(t *testing.T) {
	h := NewPageHandler(common.NewSilentLogger(), testSecret)

	w := httptest.NewRecorder()
	h.ServeLogin(w, authedRequest(t, "/"))

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("redirect location = %q", loc)
	}
}

func TestServeLoginUnknownPathIs404(t *testing.T) {
	h := NewPageHandler(common.NewSilentLogger(), testSecret)

	w := httptest.NewRecorder()
	h.ServeLogin(w, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
