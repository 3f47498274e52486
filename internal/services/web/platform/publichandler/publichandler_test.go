package publichandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"

	module "github.com/louisbranch/relayweb/internal/services/web/module"
	apperrors "github.com/louisbranch/relayweb/internal/services/web/platform/errors"
)

func TestNewBaseAppliesOptions(t *testing.T) {
	t.Parallel()

	base := NewBase(WithResolveViewer(func(*http.Request) module.Viewer { return module.Viewer{SignedIn: true} }), nil)
	if !base.ResolveRequestViewer(httptest.NewRequest(http.MethodGet, "/", nil)).SignedIn {
		t.Fatal("viewer resolver not applied")
	}
	if NewBase().ResolveRequestViewer(httptest.NewRequest(http.MethodGet, "/", nil)).SignedIn {
		t.Fatal("zero base reported signed in")
	}
}

func TestWritePublicPageAndErrors(t *testing.T) {
	t.Parallel()

	base := NewBase()
	rr := httptest.NewRecorder()
	base.WritePublicPage(rr, httptest.NewRequest(http.MethodGet, "/", nil), "", http.StatusOK, templ.NopComponent)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "<title>Firefox Relay</title>") {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	base.WriteNotFound(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("not found status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	base.WriteError(rr, httptest.NewRequest(http.MethodGet, "/", nil), apperrors.E(apperrors.KindForbidden, "nope"))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("error status = %d", rr.Code)
	}
}
