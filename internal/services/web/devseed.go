package web

import (
	"strings"
	"time"

	"github.com/louisbranch/relayweb/internal/services/web/accessor/memory"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
)

// seedDevelopment gives the in-memory backend a signed-in free account under
// token and marks premium as purchasable so every surface renders locally.
func seedDevelopment(store *memory.Store, token string, domain string) {
	token = strings.TrimSpace(token)
	if store == nil || token == "" {
		return
	}
	created := time.Date(2026, time.January, 5, 9, 30, 0, 0, time.UTC)
	store.SetPremiumCountries(&relay.PremiumCountryData{
		CountryCode: "us",
		Available:   true,
		Plan:        relay.PremiumPlan{ID: "price_1JmROfJNcmPzuWtR6od8OfDW", Price: "$0.99", Currency: "usd"},
	})
	store.Seed(token, memory.Account{
		Profile: relay.Profile{ID: 1, APIToken: token},
		User:    relay.User{ID: 1, Email: "dev@example.com"},
		Random: []relay.Alias{
			{ID: 1, Kind: relay.AliasKindRandom, Address: "k3r8dq1x", FullAddress: "k3r8dq1x@" + domain, Domain: domain, Enabled: true, Description: "Newsletters", NumForwarded: 12, NumBlocked: 3, CreatedAt: created},
			{ID: 2, Kind: relay.AliasKindRandom, Address: "p0w2zz7m", FullAddress: "p0w2zz7m@" + domain, Domain: domain, Enabled: false, NumBlocked: 41, CreatedAt: created.Add(48 * time.Hour)},
		},
	})
}
