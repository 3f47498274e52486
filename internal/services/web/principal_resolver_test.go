package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/relayweb/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/relayweb/internal/services/web/platform/webctx"
)

func resolveThrough(p principalResolver, req *http.Request) (string, module.Viewer, *httptest.ResponseRecorder) {
	var token string
	var viewer module.Viewer
	rr := httptest.NewRecorder()
	p.attach(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		token = p.resolveToken(r)
		viewer = p.resolveViewer(webctx.WithViewerEmail(r, "viewer@example.com"))
	})).ServeHTTP(rr, req)
	return token, viewer, rr
}

func TestPrincipalResolverToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		devToken   string
		cookie     string
		wantToken  string
		wantSigned bool
	}{
		{name: "signed out"},
		{name: "session cookie", cookie: "abc", wantToken: "abc", wantSigned: true},
		{name: "cookie wins over dev token", devToken: "dev", cookie: "abc", wantToken: "abc", wantSigned: true},
		{name: "dev token", devToken: "dev", wantToken: "dev", wantSigned: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/app/profile/", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: tc.cookie})
			}
			token, viewer, _ := resolveThrough(newPrincipalResolver(tc.devToken, requestmeta.SchemePolicy{}), req)
			if token != tc.wantToken {
				t.Fatalf("token = %q, want %q", token, tc.wantToken)
			}
			if viewer.SignedIn != tc.wantSigned {
				t.Fatalf("signed in = %v, want %v", viewer.SignedIn, tc.wantSigned)
			}
			if tc.wantSigned && viewer.Email != "viewer@example.com" {
				t.Fatalf("email = %q", viewer.Email)
			}
			if !tc.wantSigned && viewer.Email != "" {
				t.Fatalf("signed-out viewer has email %q", viewer.Email)
			}
		})
	}
}

func TestViewerScope(t *testing.T) {
	t.Parallel()

	if got := viewerScope(""); got != "anonymous" {
		t.Fatalf("viewerScope(\"\") = %q", got)
	}
	a, b := viewerScope("token-a"), viewerScope("token-b")
	if a == b {
		t.Fatal("distinct tokens share a scope")
	}
	if a != viewerScope(" token-a ") {
		t.Fatal("scope depends on surrounding whitespace")
	}
	if strings.Contains(a, "token-a") || len(a) != 16 {
		t.Fatalf("scope = %q, want 16 hex chars without the token", a)
	}
}

func TestPrincipalResolverAttachesRegion(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/premium/", nil)
	req.Header.Set(accessor.ClientRegionHeader, "de")
	req.Header.Set("Accept-Language", "de-DE,en;q=0.5")

	var got accessor.Region
	newPrincipalResolver("", requestmeta.SchemePolicy{}).attach(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = accessor.RegionFrom(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)

	if want := "DE|de-DE, en"; got.Key() != want {
		t.Fatalf("region = %q, want %q", got.Key(), want)
	}
}
