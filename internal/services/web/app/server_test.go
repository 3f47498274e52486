package app

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/platform/webctx"
	"github.com/louisbranch/relayweb/internal/services/web/static"
)

func buildRoot(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	h, err := BuildRootHandler(cfg)
	if err != nil {
		t.Fatalf("BuildRootHandler() error = %v", err)
	}
	return h
}

func TestRootServesPlatformRoutes(t *testing.T) {
	t.Parallel()

	h := buildRoot(t, Config{
		Static:  http.FileServerFS(static.FS),
		Metrics: statusHandler(http.StatusTeapot),
	})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{path: "/up", wantStatus: http.StatusOK, wantBody: "OK"},
		{path: "/metrics", wantStatus: http.StatusTeapot},
		{path: "/static/relay.js", wantStatus: http.StatusOK, wantBody: "data-impression-token"},
		{path: "/static/app.css", wantStatus: http.StatusOK, wantBody: ".banner"},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.wantStatus {
			t.Fatalf("GET %s status = %d, want %d", tc.path, rr.Code, tc.wantStatus)
		}
		if !strings.Contains(rr.Body.String(), tc.wantBody) {
			t.Fatalf("GET %s body missing %q", tc.path, tc.wantBody)
		}
	}
}

func TestStaticAssetsEmbedded(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"app.css", "relay.js"} {
		if _, err := fs.Stat(static.FS, name); err != nil {
			t.Fatalf("static asset %s missing: %v", name, err)
		}
	}
}

func TestRootSetsSecurityHeadersAndRequestID(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	buildRoot(t, Config{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/up", nil))
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID")
	}
}

func TestRootRejectsCrossOriginMutations(t *testing.T) {
	t.Parallel()

	h := buildRoot(t, Config{
		PublicModules: []module.Module{
			stubModule{id: "banners", mount: module.Mount{Prefix: "/banners", Handler: statusHandler(http.StatusSeeOther)}},
		},
	})

	tests := []struct {
		name   string
		origin string
		want   int
	}{
		{name: "no proof", want: http.StatusForbidden},
		{name: "other origin", origin: "https://evil.example.com", want: http.StatusForbidden},
		{name: "same origin", origin: "http://example.com", want: http.StatusSeeOther},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/banners/dismiss", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestRootRunsPrincipalBeforeModules(t *testing.T) {
	t.Parallel()

	principal := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(webctx.WithToken(r.Context(), "tok")))
		})
	}
	var seen string
	h := buildRoot(t, Config{
		Principal:    principal,
		AuthRequired: func(r *http.Request) bool { return webctx.RequestToken(r) != "" },
		ProtectedModules: []module.Module{
			stubModule{id: "profile", mount: module.Mount{Prefix: "/app/profile", Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = webctx.Token(r.Context())
				w.WriteHeader(http.StatusOK)
			})}},
		},
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app/profile/", nil).WithContext(context.Background()))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if seen != "tok" {
		t.Fatalf("token = %q, want %q", seen, "tok")
	}
}

func TestBuildRootHandlerSurfacesComposeErrors(t *testing.T) {
	t.Parallel()

	_, err := BuildRootHandler(Config{PublicModules: []module.Module{nil}})
	if err == nil {
		t.Fatal("expected compose error")
	}
}
