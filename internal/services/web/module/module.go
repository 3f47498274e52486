// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	"github.com/louisbranch/relayweb/internal/services/web/analytics"
	"github.com/louisbranch/relayweb/internal/services/web/dismissal"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
)

// Viewer contains user-facing chrome data for app pages.
type Viewer struct {
	SignedIn bool
	Email    string
}

// ResolveViewer resolves app chrome viewer state for a request.
type ResolveViewer func(*http.Request) Viewer

// ResolveToken returns the relay API token of the request, or "".
type ResolveToken func(*http.Request) string

// ResolveDismissals returns the dismissal tracker for the request. The
// response writer is needed by per-browser stores.
type ResolveDismissals func(http.ResponseWriter, *http.Request) *dismissal.Tracker

// Dependencies carries the shared services modules are built from.
type Dependencies struct {
	Config        runtimeconfig.Config
	Backend       accessor.Backend
	Sink          analytics.Sink
	Impressions   *analytics.Impressions
	SchemePolicy  requestmeta.SchemePolicy
	ResolveToken  ResolveToken
	ResolveViewer ResolveViewer
	Dismissals    ResolveDismissals
}

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}
