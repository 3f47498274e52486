// Package public serves the signed-out landing routes: the root page and
// the premium page, both built around the plan comparison.
package public

import (
	"errors"

	"github.com/go-chi/chi/v5"

	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/platform/publichandler"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
)

// Module provides unauthenticated landing routes.
type Module struct {
	deps module.Dependencies
}

// New returns the landing module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string { return "public" }

// Mount wires landing routes under the root prefix.
func (m Module) Mount() (module.Mount, error) {
	if m.deps.Backend == nil {
		return module.Mount{}, errors.New("public: accessor backend is required")
	}
	router := chi.NewRouter()
	base := publichandler.NewBase(
		publichandler.WithResolveViewer(m.deps.ResolveViewer),
		publichandler.WithSchemePolicy(m.deps.SchemePolicy),
	)
	h := newHandlers(m.deps, base)
	router.Get(routepath.Root, h.handleLanding)
	router.Get(routepath.Premium, h.handleLanding)
	router.NotFound(h.WriteNotFound)
	return module.Mount{Prefix: routepath.Root, Handler: router}, nil
}
