package profile

import (
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/louisbranch/relayweb/internal/services/web/routepath"
)

func registerRoutes(r chi.Router, h handlers) {
	if r == nil {
		return
	}
	r.Get("/", h.handleIndex)
	r.Post(relative(routepath.AppProfileOnboardingStep), h.handleOnboardingStep)
	r.Post(relative(routepath.AppProfileOnboardingSub), h.handleOnboardingSubdomain)
	r.Post(relative(routepath.AppProfileSubdomain), h.handleSubdomain)
	r.Post(relative(routepath.AppProfileAliases), h.handleAliasCreate)
	r.Post(routepath.AppProfileAliasPattern, h.handleAliasUpdate)
	r.Post(routepath.AppProfileAliasDelPattern, h.handleAliasDelete)
	r.NotFound(h.handleNotFound)
}

// relative strips the module prefix from an absolute profile path.
func relative(path string) string {
	return strings.TrimPrefix(path, routepath.ProfilePrefix)
}
