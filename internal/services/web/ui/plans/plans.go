// Package plans renders the free versus premium plan comparison.
package plans

import (
	"context"

	"github.com/a-h/templ"

	"github.com/louisbranch/relayweb/internal/services/web/analytics"
	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
	webtemplates "github.com/louisbranch/relayweb/internal/services/web/templates"
)

// Analytics labels carried by the plan CTAs.
const (
	LabelFreeCTA     = "landing-pricing-free-cta"
	LabelPremiumCTA  = "newlanding-plans-button"
	LabelWaitlistCTA = "plans-waitlist"
)

// Props configures the comparison. A nil PremiumCountries renders the
// waitlist layout.
type Props struct {
	PremiumCountries *relay.PremiumCountryData
	Config           runtimeconfig.Config
	Observer         analytics.Observer
}

var premiumFeatures = []string{
	"landing-pricing-premium-feature-1-2",
	"landing-pricing-premium-feature-2",
	"landing-pricing-premium-feature-3-2",
	"landing-pricing-premium-feature-4",
	"landing-pricing-premium-feature-5",
}

var freeFeatures = []string{
	"landing-pricing-free-feature-1-2",
	"landing-pricing-free-feature-2",
}

// Render returns the comparison component.
func Render(props Props) templ.Component {
	return webtemplates.Fragment(func(ctx context.Context, h *webtemplates.HTML) {
		loc := webi18n.FromContext(ctx)
		available := relay.IsPremiumAvailable(props.PremiumCountries)

		root := "comparison"
		if !available {
			root = "comparison-waitlist"
		}
		h.Open("section", webtemplates.Class(root), webtemplates.A("id", "plans"))
		h.Elem("h2", webi18n.T(loc, "landing-pricing-headline"), webtemplates.Class("plans-headline"))
		h.Open("div", webtemplates.Class("plans"))
		if available {
			freeCard(ctx, h, props)
			premiumCard(ctx, h, props)
		} else {
			waitlistCard(ctx, h, props)
			encourageCard(ctx, h, props)
		}
		h.Close("div")
		h.Close("section")
	})
}

func freeCard(ctx context.Context, h *webtemplates.HTML, props Props) {
	loc := webi18n.FromContext(ctx)
	h.Open("article", webtemplates.Class("plan", "plan-free"))
	h.Elem("h3", webi18n.T(loc, "landing-pricing-free-heading"), webtemplates.Class("plan-name"))
	h.Elem("p", webi18n.T(loc, "landing-pricing-free-price"), webtemplates.Class("plan-price"))
	features(ctx, h, freeFeatures)
	cta(h, props.Observer, routepath.Go(routepath.IntentSignIn), webi18n.T(loc, "landing-pricing-free-cta"),
		analytics.Ping{Category: "Sign In", Label: LabelFreeCTA}, "plan-cta-secondary")
	h.Close("article")
}

func premiumCard(ctx context.Context, h *webtemplates.HTML, props Props) {
	loc := webi18n.FromContext(ctx)
	h.Open("div", webtemplates.Class("plan-premium-wrapper"))
	h.Elem("p", webi18n.T(loc, "landing-pricing-premium-price-highlight"), webtemplates.Class("plan-callout"))
	h.Open("article", webtemplates.Class("plan", "plan-premium"))
	h.Elem("h3", webi18n.T(loc, "landing-pricing-premium-heading"), webtemplates.Class("plan-name"))
	h.Elem("p", webi18n.T(loc, "landing-pricing-premium-price", props.PremiumCountries.Plan.Price), webtemplates.Class("plan-price"))
	features(ctx, h, premiumFeatures)
	if props.Config.MozmailDomain != "" {
		h.Elem("p", "you@yourname."+props.Config.MozmailDomain, webtemplates.Class("plan-subdomain-example"))
	}
	cta(h, props.Observer, routepath.GoWithLabel(routepath.IntentSubscribe, LabelPremiumCTA), webi18n.T(loc, "nav-profile-sign-up"),
		analytics.Ping{Category: "Purchase Button", Label: LabelPremiumCTA}, "plan-cta-primary")
	h.Close("article")
	h.Close("div")
}

func waitlistCard(ctx context.Context, h *webtemplates.HTML, props Props) {
	loc := webi18n.FromContext(ctx)
	h.Open("article", webtemplates.Class("plan", "plan-waitlist"))
	h.Elem("h3", webi18n.T(loc, "landing-pricing-waitlist-heading"), webtemplates.Class("plan-name"))
	h.Elem("p", webi18n.T(loc, "landing-pricing-waitlist-copy"), webtemplates.Class("plan-copy"))
	features(ctx, h, premiumFeatures)
	// The waitlist CTA stands in for the purchase button, so it reports the
	// purchase impression.
	cta(h, props.Observer, routepath.GoWithLabel(routepath.IntentWaitlist, LabelWaitlistCTA), webi18n.T(loc, "waitlist-submit-label"),
		analytics.Ping{Category: "Purchase Button", Label: LabelPremiumCTA}, "plan-cta-primary")
	h.Close("article")
}

func encourageCard(ctx context.Context, h *webtemplates.HTML, props Props) {
	loc := webi18n.FromContext(ctx)
	h.Open("article", webtemplates.Class("plan", "plan-encourage"))
	h.Elem("h3", webi18n.T(loc, "landing-pricing-encourage-headline"), webtemplates.Class("plan-name"))
	h.Elem("p", webi18n.T(loc, "landing-pricing-encourage-copy"), webtemplates.Class("plan-copy"))
	h.Elem("p", webi18n.T(loc, "landing-pricing-free-price"), webtemplates.Class("plan-price"))
	features(ctx, h, freeFeatures)
	cta(h, props.Observer, routepath.Go(routepath.IntentSignIn), webi18n.T(loc, "landing-pricing-free-cta"),
		analytics.Ping{Category: "Sign In", Label: LabelFreeCTA}, "plan-cta-secondary")
	h.Close("article")
}

func features(ctx context.Context, h *webtemplates.HTML, keys []string) {
	loc := webi18n.FromContext(ctx)
	h.Open("ul", webtemplates.Class("plan-features"))
	for _, key := range keys {
		h.Open("li")
		h.Component(ctx, webtemplates.CheckIcon("plan-feature-icon"))
		h.Text(webi18n.T(loc, key))
		h.Close("li")
	}
	h.Close("ul")
}

func cta(h *webtemplates.HTML, observer analytics.Observer, href string, label string, ping analytics.Ping, class string) {
	attrs := []webtemplates.Attr{webtemplates.A("href", href), webtemplates.Class("plan-cta", class)}
	if observer != nil {
		attrs = append(attrs, webtemplates.Spread(observer.OnBecameVisible(ping))...)
	}
	h.Elem("a", label, attrs...)
}
