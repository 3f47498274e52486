// Package modulehandler provides a composable base for protected web module handlers.
//
// Protected modules (those mounted under /app/) share common handler infrastructure
// for token resolution, localization, page rendering, and error handling. Modules
// embed Base rather than duplicating it.
package modulehandler

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	module "github.com/louisbranch/relayweb/internal/services/web/module"
	flashnotice "github.com/louisbranch/relayweb/internal/services/web/platform/flash"
	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/platform/pagerender"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/relayweb/internal/services/web/platform/webctx"
	"github.com/louisbranch/relayweb/internal/services/web/platform/weberror"
)

// Base carries the shared request-scoped resolvers used by protected module handlers.
type Base struct {
	resolveToken  module.ResolveToken
	resolveViewer module.ResolveViewer
	policy        requestmeta.SchemePolicy
}

// NewBase builds a handler base from explicit resolver functions.
func NewBase(resolveToken module.ResolveToken, resolveViewer module.ResolveViewer, policy requestmeta.SchemePolicy) Base {
	return Base{resolveToken: resolveToken, resolveViewer: resolveViewer, policy: policy}
}

// NewTestBase builds a handler base that reads the token from the request
// context and reports every request with a token as signed in.
func NewTestBase() Base {
	return Base{
		resolveToken: webctx.RequestToken,
		resolveViewer: func(r *http.Request) module.Viewer {
			return module.Viewer{SignedIn: webctx.RequestToken(r) != ""}
		},
	}
}

// ResolveRequestViewer resolves app chrome viewer state for a request. An
// email loaded by the handler overrides the resolver's.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	viewer := module.Viewer{}
	if b.resolveViewer != nil {
		viewer = b.resolveViewer(r)
	}
	if email := webctx.ViewerEmail(r); email != "" {
		viewer.Email = email
	}
	return viewer
}

// RequestSchemePolicy returns the cookie scheme policy.
func (b Base) RequestSchemePolicy() requestmeta.SchemePolicy {
	return b.policy
}

// RequestToken returns the viewer's relay API token.
func (b Base) RequestToken(r *http.Request) string {
	if r == nil || b.resolveToken == nil {
		return ""
	}
	return strings.TrimSpace(b.resolveToken(r))
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webi18n.Localizer, string) {
	return webi18n.ResolveLocalizer(w, r)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, b)
}

// WriteNotFound renders a 404 error page within the app shell.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// WriteFlashNotice queues a notice for the next rendered page.
func (b Base) WriteFlashNotice(w http.ResponseWriter, r *http.Request, notice flashnotice.Notice) {
	flashnotice.Write(w, r, notice, b.policy)
}

// WritePage renders a full module page (HTMX-aware) with the given title and
// content fragment.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component) {
	if err := pagerender.WriteModulePage(w, r, b, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}
