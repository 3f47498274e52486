// Package impressions mounts the client visibility beacon.
package impressions

import (
	"errors"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/louisbranch/relayweb/internal/services/web/analytics"
	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
)

// Module provides the impression beacon route.
type Module struct {
	impressions *analytics.Impressions
}

// New returns the impressions module.
func New(deps module.Dependencies) Module {
	return Module{impressions: deps.Impressions}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "impressions" }

// Mount wires the beacon endpoint.
func (m Module) Mount() (module.Mount, error) {
	if m.impressions == nil {
		return module.Mount{}, errors.New("impressions: observer is required")
	}
	router := chi.NewRouter()
	router.Handle(strings.TrimPrefix(routepath.AnalyticsImpression, routepath.AnalyticsPrefix), analytics.BeaconHandler(m.impressions))
	return module.Mount{Prefix: routepath.AnalyticsPrefix, Handler: router}, nil
}
