package profile

import (
	"strconv"

	"github.com/louisbranch/relayweb/internal/services/web/relay"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
	webtemplates "github.com/louisbranch/relayweb/internal/services/web/templates"
)

// addonElement is the custom element the browser extension reads the
// viewer's state from.
const addonElement = "firefox-private-relay-addon-data"

// addonData writes the extension data island. Values are strings in the
// format the extension parses: counts as decimals, flags as True/False.
func addonData(h *webtemplates.HTML, config runtimeconfig.Config, state Steady) {
	subdomain := "None"
	if state.Profile.HasSubdomain() {
		subdomain = state.Profile.SubdomainValue()
	}
	priceID := ""
	if relay.IsPremiumAvailable(state.PremiumCountries) {
		priceID = state.PremiumCountries.Plan.ID
	}
	h.Open(addonElement,
		webtemplates.A("id", "profile-main"),
		webtemplates.A("data-api-token", state.Profile.APIToken),
		webtemplates.A("data-aliases-used-val", strconv.Itoa(state.Stats.Total)),
		webtemplates.A("data-emails-forwarded-val", strconv.Itoa(state.Stats.Forwarded)),
		webtemplates.A("data-emails-blocked-val", strconv.Itoa(state.Stats.Blocked)),
		webtemplates.A("data-premium-subdomain-set", subdomain),
		// Tells the add-on the site offers premium, not that the viewer has it.
		webtemplates.A("data-premium-enabled", "True"),
		webtemplates.A("data-fxa-subscriptions-url", relay.SubscriptionsURL(config.FxAOrigin)),
		webtemplates.A("data-premium-prod-id", config.PremiumProductID),
		webtemplates.A("data-premium-price-id", priceID),
	)
	h.Close(addonElement)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
