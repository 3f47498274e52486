package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/relayweb/internal/services/web/dismissal"
	"github.com/louisbranch/relayweb/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
)

const devToken = "dev-token"

func testRuntime() runtimeconfig.Config {
	return runtimeconfig.Config{
		SignInURL:              "https://relay.example.com/accounts/login/",
		FxAOrigin:              "https://accounts.example.com",
		EmailSizeLimitNumber:   10,
		EmailSizeLimitUnit:     "MB",
		MaxOnboardingAvailable: 3,
		MozmailDomain:          "mozmail.com",
		PremiumProductID:       "prod_1",
		WaitlistURL:            "/premium/waitlist",
		AddonURL:               "https://addons.example.com/relay",
	}
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = "127.0.0.1:0"
	}
	if cfg.Runtime.SignInURL == "" {
		cfg.Runtime = testRuntime()
	}
	server, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(server.Close)
	return server
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing address", cfg: Config{Runtime: testRuntime()}},
		{name: "invalid runtime", cfg: Config{HTTPAddr: "127.0.0.1:0"}},
		{name: "unknown backend", cfg: Config{HTTPAddr: "127.0.0.1:0", Runtime: testRuntime(), Backend: "grpc"}},
		{name: "unknown dismissal store", cfg: Config{HTTPAddr: "127.0.0.1:0", Runtime: testRuntime(), Dismissals: "disk"}},
		{name: "redis store without url", cfg: Config{HTTPAddr: "127.0.0.1:0", Runtime: testRuntime(), Dismissals: DismissalsRedis}},
		{name: "relay api without base url", cfg: Config{HTTPAddr: "127.0.0.1:0", Runtime: testRuntime(), Backend: BackendRESTAPI}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewServer(context.Background(), tc.cfg); err == nil {
				t.Fatal("NewServer() error = nil")
			}
		})
	}
}

func TestServerServesLandingAndProfile(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, Config{DevToken: devToken}).Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("landing status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body := rr.Body.String(); !strings.Contains(body, `class="comparison"`) {
		t.Fatalf("landing missing plan comparison: %q", body)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app/profile/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("profile status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	for _, marker := range []string{`id="profile"`, "k3r8dq1x", "firefox-private-relay-addon-data"} {
		if !strings.Contains(body, marker) {
			t.Fatalf("profile missing %q", marker)
		}
	}
}

func TestServerRedirectsSignedOutProfile(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, Config{}).Handler()
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app/profile/", nil))
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != testRuntime().SignInURL {
		t.Fatalf("Location = %q", got)
	}
}

func TestServerTrackedNavigation(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, Config{}).Handler()
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/go/addon", nil))
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != testRuntime().AddonURL {
		t.Fatalf("Location = %q", got)
	}
}

func TestServerDismissalStores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		kind       string
		wantCookie bool
	}{
		{name: "cookie", kind: DismissalsCookie, wantCookie: true},
		{name: "memory", kind: DismissalsMemory},
		{name: "sqlite", kind: DismissalsSQLite},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Config{DevToken: devToken, Dismissals: tc.kind}
			if tc.kind == DismissalsSQLite {
				cfg.SQLitePath = filepath.Join(t.TempDir(), "web.db")
			}
			handler := newTestServer(t, cfg).Handler()

			form := url.Values{"key": {"profile-addon"}, "return_to": {"/app/profile/"}}
			req := httptest.NewRequest(http.MethodPost, "/banners/dismiss", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("Origin", "http://example.com")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
			}
			gotCookie := false
			for _, cookie := range rr.Result().Cookies() {
				if cookie.Name == dismissal.CookieName {
					gotCookie = true
				}
			}
			if gotCookie != tc.wantCookie {
				t.Fatalf("dismissal cookie written = %v, want %v", gotCookie, tc.wantCookie)
			}
		})
	}
}

func TestServerRejectsCrossOriginDismiss(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, Config{}).Handler()
	req := httptest.NewRequest(http.MethodPost, "/banners/dismiss", strings.NewReader("key=promo"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestServerIssuesDevSession(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, Config{DevToken: devToken}).Handler()
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/up", nil))
	found := false
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessioncookie.Name && cookie.Value == devToken {
			found = true
		}
	}
	if !found {
		t.Fatal("dev session cookie not issued")
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := server.ListenAndServe(ctx); err != nil {
		t.Fatalf("ListenAndServe() error = %v", err)
	}
}
