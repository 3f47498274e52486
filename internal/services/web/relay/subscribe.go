package relay

import (
	"net/url"
	"strings"
)

// SubscribeLink builds the account-system checkout URL for plan. It returns
// "" when premium is unavailable.
func SubscribeLink(accountsOrigin, productID string, data *PremiumCountryData) string {
	if !IsPremiumAvailable(data) {
		return ""
	}
	origin := strings.TrimRight(strings.TrimSpace(accountsOrigin), "/")
	query := url.Values{"plan": []string{data.Plan.ID}}
	return origin + "/subscriptions/products/" + url.PathEscape(productID) + "?" + query.Encode()
}

// SubscriptionsURL is the account-system page listing the viewer's subscriptions.
func SubscriptionsURL(accountsOrigin string) string {
	return strings.TrimRight(strings.TrimSpace(accountsOrigin), "/") + "/subscriptions"
}
