// Package banners serves the banner dismiss endpoint.
package banners

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/louisbranch/relayweb/internal/platform/logging"
	module "github.com/louisbranch/relayweb/internal/services/web/module"
	apperrors "github.com/louisbranch/relayweb/internal/services/web/platform/errors"
	"github.com/louisbranch/relayweb/internal/services/web/platform/httpx"
	"github.com/louisbranch/relayweb/internal/services/web/platform/publichandler"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// Module provides the dismiss route.
type Module struct {
	deps module.Dependencies
}

// New returns the banners module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "banners" }

// Mount wires the dismiss route.
func (m Module) Mount() (module.Mount, error) {
	if m.deps.Dismissals == nil {
		return module.Mount{}, errors.New("banners: dismissal resolver is required")
	}
	router := chi.NewRouter()
	h := handlers{
		Base: publichandler.NewBase(
			publichandler.WithResolveViewer(m.deps.ResolveViewer),
			publichandler.WithSchemePolicy(m.deps.SchemePolicy),
		),
		dismissals: m.deps.Dismissals,
	}
	router.Post(strings.TrimPrefix(routepath.BannersDismiss, routepath.BannersPrefix), h.handleDismiss)
	router.NotFound(h.WriteNotFound)
	return module.Mount{Prefix: routepath.BannersPrefix, Handler: router}, nil
}

type handlers struct {
	publichandler.Base
	dismissals module.ResolveDismissals
}

// handleDismiss records the dismissal and sends the viewer back to a
// same-origin page. A store failure still redirects; the banner reappears.
func (h handlers) handleDismiss(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PostFormValue("key"))
	if !keyPattern.MatchString(key) {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error-banner-key-invalid", "invalid banner key"))
		return
	}
	returnTo := requestmeta.SafeReturnPath(r.PostFormValue(routepath.ReturnToField), routepath.Root)
	if err := h.dismissals(w, r).Dismiss(r.Context(), key); err != nil {
		logging.FromContext(r.Context()).Warn("dismiss banner", zap.String("key", key), zap.Error(err))
	}
	httpx.WriteSeeOther(w, r, returnTo)
}
