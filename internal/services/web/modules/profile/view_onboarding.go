package profile

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/relayweb/internal/services/web/templates"
)

// Premium onboarding steps, in order.
const (
	onboardingStepWelcome = iota
	onboardingStepDomain
	onboardingStepExtension
)

// onboardingView renders only the premium onboarding flow.
func onboardingView(state Onboarding, mozmailDomain string) templ.Component {
	return webtemplates.Fragment(func(ctx context.Context, h *webtemplates.HTML) {
		loc := webi18n.FromContext(ctx)
		h.Open("section", webtemplates.A("id", "premium-onboarding"), webtemplates.Class("onboarding"),
			webtemplates.A("data-step", strconv.Itoa(state.Step)))
		h.Elem("p", webi18n.T(loc, "onboarding-premium-step-progress", state.Step+1, state.Steps), webtemplates.Class("onboarding-progress"))

		switch state.Step {
		case onboardingStepWelcome:
			h.Elem("h1", webi18n.T(loc, "onboarding-premium-welcome-headline"))
			h.Elem("p", webi18n.T(loc, "onboarding-premium-welcome-copy"))
		case onboardingStepDomain:
			h.Elem("h1", webi18n.T(loc, "onboarding-premium-domain-headline"))
			h.Elem("p", webi18n.T(loc, "onboarding-premium-domain-copy"))
			if !state.Profile.HasSubdomain() {
				subdomainPicker(h, loc, routepath.AppProfileOnboardingSub, strconv.Itoa(state.Step+1))
			} else {
				h.Elem("p", domainBadge(state.Profile.SubdomainValue(), mozmailDomain), webtemplates.Class("profile-domain-badge"))
			}
		default:
			h.Elem("h1", webi18n.T(loc, "onboarding-premium-extension-headline"))
			h.Elem("p", webi18n.T(loc, "onboarding-premium-extension-copy"))
		}

		h.Open("div", webtemplates.Class("onboarding-controls"))
		last := state.Step+1 >= state.Steps
		if last {
			stepButton(h, state.Steps, webi18n.T(loc, "onboarding-premium-finish"), "button-primary")
		} else {
			stepButton(h, state.Step+1, webi18n.T(loc, "onboarding-premium-next"), "button-primary")
			stepButton(h, state.Steps, webi18n.T(loc, "onboarding-premium-skip"), "button-link")
		}
		h.Close("div")
		h.Close("section")
	})
}

func stepButton(h *webtemplates.HTML, step int, label string, class string) {
	h.Open("form", webtemplates.A("method", "post"), webtemplates.A("action", routepath.AppProfileOnboardingStep))
	h.Void("input", webtemplates.A("type", "hidden"), webtemplates.A("name", "step"), webtemplates.A("value", strconv.Itoa(step)))
	h.Elem("button", label, webtemplates.A("type", "submit"), webtemplates.Class(class))
	h.Close("form")
}
