// Package outbound serves tracked navigation: each GET /go/{intent} records
// one analytics event and then redirects to the intent's destination.
package outbound

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/louisbranch/relayweb/internal/platform/logging"
	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	"github.com/louisbranch/relayweb/internal/services/web/analytics"
	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/platform/httpx"
	"github.com/louisbranch/relayweb/internal/services/web/platform/publichandler"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
	"github.com/louisbranch/relayweb/internal/services/web/ui/plans"
)

var labelPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// intent describes one tracked destination.
type intent struct {
	category     string
	defaultLabel string
	// fixedLabel ignores the label query parameter.
	fixedLabel  bool
	destination func(ctx context.Context, h handlers) string
}

var intents = map[string]intent{
	routepath.IntentSignIn: {
		category:     "Sign In",
		defaultLabel: plans.LabelFreeCTA,
		fixedLabel:   true,
		destination:  func(_ context.Context, h handlers) string { return h.config.SignInURL },
	},
	routepath.IntentSubscribe: {
		category:     "Purchase Button",
		defaultLabel: plans.LabelPremiumCTA,
		destination:  subscribeDestination,
	},
	routepath.IntentWaitlist: {
		category:     "Waitlist",
		defaultLabel: plans.LabelWaitlistCTA,
		destination:  func(_ context.Context, h handlers) string { return h.config.WaitlistURL },
	},
	routepath.IntentAddon: {
		category:     "Add-on",
		defaultLabel: "profile-addon-banner",
		destination:  func(_ context.Context, h handlers) string { return h.config.AddonURL },
	},
}

// Module provides the tracked navigation routes.
type Module struct {
	deps module.Dependencies
}

// New returns the outbound module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "outbound" }

// Mount wires the tracked navigation route.
func (m Module) Mount() (module.Mount, error) {
	if m.deps.Sink == nil {
		return module.Mount{}, errors.New("outbound: analytics sink is required")
	}
	router := chi.NewRouter()
	h := handlers{
		Base: publichandler.NewBase(
			publichandler.WithResolveViewer(m.deps.ResolveViewer),
			publichandler.WithSchemePolicy(m.deps.SchemePolicy),
		),
		sink:    m.deps.Sink,
		backend: m.deps.Backend,
		config:  m.deps.Config,
	}
	router.Get(routepath.GoPattern, h.handleGo)
	router.NotFound(h.WriteNotFound)
	return module.Mount{Prefix: routepath.GoPrefix, Handler: router}, nil
}

type handlers struct {
	publichandler.Base
	sink    analytics.Sink
	backend accessor.Backend
	config  runtimeconfig.Config
}

func (h handlers) handleGo(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "intent"))
	target, ok := intents[name]
	if !ok {
		h.WriteNotFound(w, r)
		return
	}
	label := target.defaultLabel
	if !target.fixedLabel {
		if requested := strings.TrimSpace(r.URL.Query().Get("label")); labelPattern.MatchString(requested) {
			label = requested
		}
	}
	ctx := r.Context()
	destination := target.destination(ctx, h)
	h.sink.Emit(ctx, analytics.Event{Category: target.category, Action: analytics.ActionEngage, Label: label})
	httpx.WriteRedirect(w, r, destination)
}

// subscribeDestination is the checkout link when premium is purchasable and
// the premium page otherwise.
func subscribeDestination(ctx context.Context, h handlers) string {
	if h.backend == nil {
		return routepath.Premium
	}
	acc := h.backend.Open("")
	if acc.PremiumCountries == nil {
		return routepath.Premium
	}
	data, err := acc.PremiumCountries.Load(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("load premium availability for checkout", zap.Error(err))
		return routepath.Premium
	}
	if link := relay.SubscribeLink(h.config.FxAOrigin, h.config.PremiumProductID, data); link != "" {
		return link
	}
	return routepath.Premium
}
