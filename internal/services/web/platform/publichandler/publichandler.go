// Package publichandler provides a shared base for public web module handlers.
// It centralizes error handling, localization, and page rendering that would
// otherwise be duplicated across public modules.
package publichandler

import (
	"net/http"

	"github.com/a-h/templ"

	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/platform/pagerender"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/relayweb/internal/services/web/platform/weberror"
)

// Base provides shared error handling and page rendering for public modules.
type Base struct {
	resolveViewer module.ResolveViewer
	policy        requestmeta.SchemePolicy
}

// Option configures a Base.
type Option func(*Base)

// WithResolveViewer attaches a viewer resolver for app-chrome rendering.
func WithResolveViewer(rv module.ResolveViewer) Option {
	return func(b *Base) { b.resolveViewer = rv }
}

// WithSchemePolicy sets the cookie scheme policy.
func WithSchemePolicy(policy requestmeta.SchemePolicy) Option {
	return func(b *Base) { b.policy = policy }
}

// NewBase builds a public handler base with the given options.
func NewBase(opts ...Option) Base {
	var b Base
	for _, o := range opts {
		if o != nil {
			o(&b)
		}
	}
	return b
}

// ResolveRequestViewer resolves viewer state for the request.
// Returns a zero Viewer when no resolver is configured.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	if b.resolveViewer == nil {
		return module.Viewer{}
	}
	return b.resolveViewer(r)
}

// RequestSchemePolicy returns the cookie scheme policy.
func (b Base) RequestSchemePolicy() requestmeta.SchemePolicy {
	return b.policy
}

// WritePublicPage renders a full public page.
func (b Base) WritePublicPage(w http.ResponseWriter, r *http.Request, title string, statusCode int, body templ.Component) {
	if err := pagerender.WriteModulePage(w, r, b, pagerender.ModulePage{Title: title, StatusCode: statusCode, Fragment: body}); err != nil {
		b.WriteError(w, r, err)
	}
}

// WriteNotFound renders a localized 404 error page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// WriteError renders a user-safe error response: app error pages for not-found
// and server errors, plain-text status messages for everything else.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, b)
}
