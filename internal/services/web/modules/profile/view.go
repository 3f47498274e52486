package profile

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/louisbranch/relayweb/internal/services/web/analytics"
	"github.com/louisbranch/relayweb/internal/services/web/dismissal"
	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
	webtemplates "github.com/louisbranch/relayweb/internal/services/web/templates"
	"github.com/louisbranch/relayweb/internal/services/web/ui/banner"
)

// Banner keys and analytics labels used on the dashboard.
const (
	bannerKeyAddon   = "profile-addon"
	bannerKeyUpgrade = "profile-upgrade"

	labelBannerPromo = "profile-banner-promo"
	labelBottomPromo = "profile-bottom-promo"
)

const upgradeBannerSnooze = 30 * 24 * time.Hour

// viewContext carries the request-scoped collaborators the views read.
type viewContext struct {
	config     runtimeconfig.Config
	dismissals dismissal.Checker
	observer   analytics.Observer
}

// dashboardView renders the steady-state profile page.
func dashboardView(ctx context.Context, vc viewContext, state Steady) templ.Component {
	premiumAvailable := relay.IsPremiumAvailable(state.PremiumCountries)
	bannerSlot := profileBanners(ctx, vc, state.Profile, premiumAvailable)
	var bottom templ.Component
	if !state.Profile.HasPremium && premiumAvailable {
		bottom = bottomUpsell(ctx, vc)
	}

	return webtemplates.Fragment(func(ctx context.Context, h *webtemplates.HTML) {
		loc := webi18n.FromContext(ctx)
		h.Open("section", webtemplates.A("id", "profile"), webtemplates.Class("profile"))
		if state.Profile.HasPremium {
			premiumHeader(ctx, h, vc.config, state)
		} else {
			h.Open("header", webtemplates.Class("profile-welcome"))
			h.Elem("h1", webi18n.T(loc, "profile-label-welcome-html", state.User.Email), webtemplates.Class("profile-headline"))
			h.Close("header")
		}

		if len(bannerSlot) > 0 {
			h.Open("div", webtemplates.Class("profile-banners"))
			for _, b := range bannerSlot {
				h.Component(ctx, b)
			}
			h.Close("div")
		}

		if state.Profile.HasPremium && !state.Profile.HasSubdomain() {
			subdomainPicker(h, loc, routepath.AppProfileSubdomain, "")
		}
		if len(state.Aliases) == 0 {
			if onboarding := aliasOnboardingBanner(ctx, loc); onboarding != nil {
				h.Component(ctx, onboarding)
			}
		}
		aliasList(ctx, h, state.Profile, state.Aliases)

		h.Elem("p", webi18n.T(loc, "profile-supports-email-forwarding", vc.config.EmailSizeLimitNumber, vc.config.EmailSizeLimitUnit), webtemplates.Class("profile-email-size"))
		if bottom != nil {
			h.Component(ctx, bottom)
		}
		addonData(h, vc.config, state)
		h.Close("section")
	})
}

// domainBadge renders the viewer's mask domain, e.g. "@me.mozmail.com".
func domainBadge(subdomain, mozmailDomain string) string {
	return "@" + subdomain + "." + mozmailDomain
}

func premiumHeader(ctx context.Context, h *webtemplates.HTML, config runtimeconfig.Config, state Steady) {
	loc := webi18n.FromContext(ctx)
	h.Open("header", webtemplates.Class("profile-premium-header"))
	if state.Profile.HasSubdomain() {
		h.Open("p", webtemplates.Class("profile-domain"))
		h.Elem("span", webi18n.T(loc, "profile-label-domain"), webtemplates.Class("profile-domain-label"))
		h.Elem("strong", domainBadge(state.Profile.SubdomainValue(), config.MozmailDomain), webtemplates.Class("profile-domain-badge"))
		h.Close("p")
	}
	h.Open("dl", webtemplates.Class("profile-stats"))
	stat(h, webi18n.T(loc, "profile-stat-label-aliases-used"), state.Stats.Total)
	stat(h, webi18n.T(loc, "profile-stat-label-blocked"), state.Stats.Blocked)
	stat(h, webi18n.T(loc, "profile-stat-label-forwarded"), state.Stats.Forwarded)
	h.Close("dl")
	h.Close("header")
}

func stat(h *webtemplates.HTML, label string, value int) {
	h.Open("div", webtemplates.Class("profile-stat"))
	h.Elem("dt", label)
	h.Elem("dd", strconv.Itoa(value))
	h.Close("div")
}

// profileBanners returns the banners for the slot under the header.
// Dismissed banners are omitted.
func profileBanners(ctx context.Context, vc viewContext, profile relay.Profile, premiumAvailable bool) []templ.Component {
	loc := webi18n.FromContext(ctx)
	var out []templ.Component
	addon := banner.Render(ctx, banner.Props{
		Type:            banner.TypeInfo,
		Title:           webi18n.T(loc, "banner-addon-headline"),
		Body:            paragraph(webi18n.T(loc, "banner-addon-copy")),
		HiddenWithAddon: true,
		Dismissal:       dismissal.Forever(bannerKeyAddon),
		Dismissals:      vc.dismissals,
		ReturnTo:        routepath.AppProfile,
		CTA: &banner.CTA{
			Action: banner.CTATarget{URL: routepath.Go(routepath.IntentAddon)},
			Label:  webi18n.T(loc, "banner-addon-cta"),
		},
	})
	if addon != nil {
		out = append(out, addon)
	}
	if !profile.HasPremium && premiumAvailable {
		upgrade := banner.Render(ctx, banner.Props{
			Type:       banner.TypePromo,
			Title:      webi18n.T(loc, "banner-upgrade-headline"),
			Body:       paragraph(webi18n.T(loc, "banner-upgrade-copy")),
			Dismissal:  dismissal.For(bannerKeyUpgrade, upgradeBannerSnooze),
			Dismissals: vc.dismissals,
			Observer:   vc.observer,
			ReturnTo:   routepath.AppProfile,
			CTA: &banner.CTA{
				Action: banner.CTATarget{URL: routepath.GoWithLabel(routepath.IntentSubscribe, labelBannerPromo)},
				Label:  webi18n.T(loc, "banner-upgrade-cta"),
				Ping:   &analytics.Ping{Category: "Purchase Button", Label: labelBannerPromo},
			},
		})
		if upgrade != nil {
			out = append(out, upgrade)
		}
	}
	return out
}

func aliasOnboardingBanner(ctx context.Context, loc webi18n.Localizer) templ.Component {
	return banner.Render(ctx, banner.Props{
		Type:  banner.TypeInfo,
		Title: webi18n.T(loc, "onboarding-headline"),
		Body:  paragraph(webi18n.T(loc, "onboarding-copy")),
		CTA: &banner.CTA{
			Action: banner.CTAHandler{Path: routepath.AppProfileAliases},
			Label:  webi18n.T(loc, "onboarding-cta"),
			Size:   banner.CTASizeLarge,
		},
	})
}

func bottomUpsell(ctx context.Context, vc viewContext) templ.Component {
	loc := webi18n.FromContext(ctx)
	return banner.Render(ctx, banner.Props{
		Type:  banner.TypePromo,
		Title: webi18n.T(loc, "banner-pack-upgrade-headline-html"),
		Body:  paragraph(webi18n.T(loc, "banner-pack-upgrade-copy")),
		CTA: &banner.CTA{
			Action: banner.CTATarget{URL: routepath.GoWithLabel(routepath.IntentSubscribe, labelBottomPromo)},
			Label:  webi18n.T(loc, "banner-pack-upgrade-cta"),
			Size:   banner.CTASizeLarge,
			Ping:   &analytics.Ping{Category: "Purchase Button", Label: labelBottomPromo},
		},
	})
}

func subdomainPicker(h *webtemplates.HTML, loc webi18n.Localizer, action string, nextStep string) {
	h.Open("section", webtemplates.Class("subdomain-picker"))
	h.Elem("h2", webi18n.T(loc, "profile-subdomain-picker-headline"))
	h.Elem("p", webi18n.T(loc, "profile-subdomain-picker-copy"))
	h.Open("form", webtemplates.A("method", "post"), webtemplates.A("action", action))
	if nextStep != "" {
		h.Void("input", webtemplates.A("type", "hidden"), webtemplates.A("name", "step"), webtemplates.A("value", nextStep))
	}
	h.Elem("label", webi18n.T(loc, "profile-subdomain-picker-input-label"), webtemplates.A("for", "subdomain"))
	h.Void("input", webtemplates.A("type", "text"), webtemplates.A("id", "subdomain"), webtemplates.A("name", "subdomain"),
		webtemplates.A("autocomplete", "off"), webtemplates.Flag("required"))
	h.Elem("button", webi18n.T(loc, "profile-subdomain-picker-submit"), webtemplates.A("type", "submit"))
	h.Close("form")
	h.Close("section")
}

func paragraph(text string) templ.Component {
	return webtemplates.Fragment(func(_ context.Context, h *webtemplates.HTML) {
		h.Elem("p", text)
	})
}
