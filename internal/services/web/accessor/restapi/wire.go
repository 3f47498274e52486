package restapi

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/relayweb/internal/services/web/relay"
)

const (
	profilesPath        = "/api/v1/profiles/"
	usersPath           = "/api/v1/users/"
	relayAddressesPath  = "/api/v1/relayaddresses/"
	domainAddressesPath = "/api/v1/domainaddresses/"
	runtimeDataPath     = "/api/v1/runtime_data"
)

type profileJSON struct {
	ID              int64   `json:"id"`
	HasPremium      bool    `json:"has_premium"`
	OnboardingState int     `json:"onboarding_state"`
	Subdomain       *string `json:"subdomain"`
	APIToken        string  `json:"api_token"`
}

func (p profileJSON) domain() relay.Profile {
	profile := relay.Profile{
		ID:              p.ID,
		HasPremium:      p.HasPremium,
		OnboardingState: p.OnboardingState,
		APIToken:        p.APIToken,
	}
	if p.Subdomain != nil && strings.TrimSpace(*p.Subdomain) != "" {
		sub := strings.TrimSpace(*p.Subdomain)
		profile.Subdomain = &sub
	}
	return profile
}

type profilePatchJSON struct {
	OnboardingState *int    `json:"onboarding_state,omitempty"`
	Subdomain       *string `json:"subdomain,omitempty"`
}

type userJSON struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type aliasJSON struct {
	ID           int64     `json:"id"`
	Address      string    `json:"address"`
	FullAddress  string    `json:"full_address"`
	Domain       int       `json:"domain"`
	Enabled      bool      `json:"enabled"`
	Description  string    `json:"description"`
	NumBlocked   int       `json:"num_blocked"`
	NumForwarded int       `json:"num_forwarded"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a aliasJSON) domain(kind relay.AliasKind) relay.Alias {
	alias := relay.Alias{
		ID:           a.ID,
		Kind:         kind,
		Address:      a.Address,
		FullAddress:  a.FullAddress,
		Enabled:      a.Enabled,
		Description:  a.Description,
		NumBlocked:   a.NumBlocked,
		NumForwarded: a.NumForwarded,
		CreatedAt:    a.CreatedAt,
	}
	if at := strings.LastIndex(a.FullAddress, "@"); at >= 0 {
		alias.Domain = a.FullAddress[at+1:]
	}
	return alias
}

type aliasCreateJSON struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address,omitempty"`
}

type aliasPatchJSON struct {
	Enabled     *bool   `json:"enabled,omitempty"`
	Description *string `json:"description,omitempty"`
}

type planJSON struct {
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type premiumPlansJSON struct {
	CountryCode        string                         `json:"country_code"`
	AvailableInCountry bool                           `json:"available_in_country"`
	PlanMapping        map[string]map[string]planJSON `json:"plan_country_lang_mapping"`
}

type runtimeDataJSON struct {
	PremiumPlans premiumPlansJSON `json:"PERIODICAL_PREMIUM_PLANS"`
}

// premiumCountryData picks the plan for the reported country. Language
// variants are keyed by base language with "*" as the catch-all. The viewer's
// preferred languages are tried first, then "*", then the first key in sorted
// order so the pick is stable across responses.
func (r runtimeDataJSON) premiumCountryData(preferred []language.Tag) *relay.PremiumCountryData {
	plans := r.PremiumPlans
	country := strings.ToLower(strings.TrimSpace(plans.CountryCode))
	data := &relay.PremiumCountryData{CountryCode: strings.ToUpper(country)}
	if !plans.AvailableInCountry {
		return data
	}
	variants := plans.PlanMapping[country]
	if len(variants) == 0 {
		variants = plans.PlanMapping[strings.ToUpper(country)]
	}
	if len(variants) == 0 {
		return data
	}
	plan, ok := pickVariant(variants, preferred)
	if !ok || strings.TrimSpace(plan.ID) == "" {
		return data
	}
	data.Available = true
	data.Plan = relay.PremiumPlan{
		ID:       plan.ID,
		Price:    formatPrice(plan.Price, plan.Currency),
		Currency: strings.ToUpper(strings.TrimSpace(plan.Currency)),
	}
	return data
}

func pickVariant(variants map[string]planJSON, preferred []language.Tag) (planJSON, bool) {
	for _, tag := range preferred {
		base, _ := tag.Base()
		if plan, ok := variants[base.String()]; ok {
			return plan, true
		}
	}
	if plan, ok := variants["*"]; ok {
		return plan, true
	}
	keys := make([]string, 0, len(variants))
	for key := range variants {
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return planJSON{}, false
	}
	sort.Strings(keys)
	return variants[keys[0]], true
}

var pricePrinter = message.NewPrinter(language.English)

// formatPrice renders amount with its currency symbol. Unknown currency
// codes fall back to "CODE amount".
func formatPrice(amount float64, code string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return strings.TrimSpace(fmt.Sprintf("%s %.2f", strings.ToUpper(strings.TrimSpace(code)), amount))
	}
	return pricePrinter.Sprint(currency.NarrowSymbol(unit.Amount(amount)))
}
