package modules

import (
	"github.com/louisbranch/relayweb/internal/services/web/modules/banners"
	"github.com/louisbranch/relayweb/internal/services/web/modules/impressions"
	"github.com/louisbranch/relayweb/internal/services/web/modules/outbound"
	"github.com/louisbranch/relayweb/internal/services/web/modules/profile"
	"github.com/louisbranch/relayweb/internal/services/web/modules/public"
)

// DefaultPublicModules returns the modules served without a signed-in
// viewer. The landing module mounts at the root and must stay last so more
// specific prefixes win.
func DefaultPublicModules(deps Dependencies) []Module {
	return []Module{
		outbound.New(deps),
		banners.New(deps),
		impressions.New(deps),
		public.New(deps),
	}
}

// DefaultProtectedModules returns the modules that act for a signed-in viewer.
func DefaultProtectedModules(deps Dependencies) []Module {
	return []Module{
		profile.New(deps),
	}
}
