package public

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/relayweb/internal/platform/logging"
	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	"github.com/louisbranch/relayweb/internal/services/web/analytics"
	module "github.com/louisbranch/relayweb/internal/services/web/module"
	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/platform/publichandler"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
	webtemplates "github.com/louisbranch/relayweb/internal/services/web/templates"
	"github.com/louisbranch/relayweb/internal/services/web/ui/plans"
)

type handlers struct {
	publichandler.Base
	backend  accessor.Backend
	config   runtimeconfig.Config
	observer analytics.Observer
}

func newHandlers(deps module.Dependencies, base publichandler.Base) handlers {
	h := handlers{Base: base, backend: deps.Backend, config: deps.Config}
	if deps.Impressions != nil {
		h.observer = deps.Impressions
	}
	return h
}

func (h handlers) handleLanding(w http.ResponseWriter, r *http.Request) {
	premium := h.loadPremiumCountries(r.Context())
	loc, _ := webi18n.ResolveLocalizer(w, r)
	body := webtemplates.Fragment(func(ctx context.Context, html *webtemplates.HTML) {
		html.Open("div", webtemplates.A("id", "landing"), webtemplates.Class("landing"))
		html.Component(ctx, plans.Render(plans.Props{
			PremiumCountries: premium,
			Config:           h.config,
			Observer:         h.observer,
		}))
		html.Close("div")
	})
	h.WritePublicPage(w, r, webi18n.T(loc, "landing-pricing-headline"), http.StatusOK, body)
}

// loadPremiumCountries returns nil when availability cannot be read, which
// renders the waitlist layout.
func (h handlers) loadPremiumCountries(ctx context.Context) *relay.PremiumCountryData {
	acc := h.backend.Open("")
	if acc.PremiumCountries == nil {
		return nil
	}
	data, err := acc.PremiumCountries.Load(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("load premium availability", zap.Error(err))
		return nil
	}
	return data
}
