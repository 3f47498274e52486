package profile

import (
	"errors"

	"github.com/go-chi/chi/v5"

	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
)

// Module provides the signed-in profile dashboard routes.
type Module struct {
	deps module.Dependencies
}

// New returns a profile module built from the shared dependencies.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "profile" }

// Healthy reports whether the profile module has an accessor backend.
func (m Module) Healthy() bool {
	return m.deps.Backend != nil
}

// Mount wires profile route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.deps.Backend == nil {
		return module.Mount{}, errors.New("profile: accessor backend is required")
	}
	router := chi.NewRouter()
	base := modulehandler.NewBase(m.deps.ResolveToken, m.deps.ResolveViewer, m.deps.SchemePolicy)
	h := newHandlers(newService(m.deps.Backend, m.deps.Config), base, m.deps)
	registerRoutes(router, h)
	return module.Mount{Prefix: routepath.ProfilePrefix, Handler: router}, nil
}
