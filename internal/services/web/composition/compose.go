// Package composition joins principal resolution, the module registry and
// the root router into the application handler.
package composition

import (
	"net/http"

	webapp "github.com/louisbranch/relayweb/internal/services/web/app"
	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/modules"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
)

// PrincipalResolvers carries request-scoped resolution callbacks built by the
// server from the viewer's credentials.
type PrincipalResolvers struct {
	// Attach stores credentials on the request context.
	Attach        func(http.Handler) http.Handler
	AuthRequired  func(*http.Request) bool
	ResolveToken  module.ResolveToken
	ResolveViewer module.ResolveViewer
	Dismissals    module.ResolveDismissals
}

// ModuleRegistry builds the public and protected module sets.
type ModuleRegistry interface {
	Build(module.Dependencies) (public []module.Module, protected []module.Module)
}

// DefaultRegistry serves the production module sets.
type DefaultRegistry struct{}

// Build implements ModuleRegistry.
func (DefaultRegistry) Build(deps module.Dependencies) ([]module.Module, []module.Module) {
	return modules.DefaultPublicModules(deps), modules.DefaultProtectedModules(deps)
}

// ComposeInput describes the contracts needed to compose the application mux.
type ComposeInput struct {
	Principal PrincipalResolvers

	// ModuleDependencies holds the shared services; principal resolvers
	// override its resolver fields.
	ModuleDependencies  module.Dependencies
	RequestSchemePolicy requestmeta.SchemePolicy

	Static  http.Handler
	Metrics http.Handler

	Registry ModuleRegistry
}

// ComposeAppHandler builds the web app handler with the registry's modules.
func ComposeAppHandler(input ComposeInput) (http.Handler, error) {
	registry := input.Registry
	if registry == nil {
		registry = DefaultRegistry{}
	}

	deps := input.ModuleDependencies
	deps.SchemePolicy = input.RequestSchemePolicy
	if input.Principal.ResolveToken != nil {
		deps.ResolveToken = input.Principal.ResolveToken
	}
	if input.Principal.ResolveViewer != nil {
		deps.ResolveViewer = input.Principal.ResolveViewer
	}
	if input.Principal.Dismissals != nil {
		deps.Dismissals = input.Principal.Dismissals
	}
	if deps.ResolveViewer == nil {
		deps.ResolveViewer = func(*http.Request) module.Viewer { return module.Viewer{} }
	}

	public, protected := registry.Build(deps)
	return webapp.BuildRootHandler(webapp.Config{
		PublicModules:    public,
		ProtectedModules: protected,
		AuthRequired:     input.Principal.AuthRequired,
		SignInURL:        deps.Config.SignInURL,
		SchemePolicy:     input.RequestSchemePolicy,
		Principal:        input.Principal.Attach,
		Static:           input.Static,
		Metrics:          input.Metrics,
	})
}
