package relay

import (
	"strings"
	"time"
)

// AliasKind selects the collection an alias lives in.
type AliasKind int

const (
	aliasKindInvalid AliasKind = iota
	// AliasKindRandom is a generated address on the shared relay domain.
	AliasKindRandom
	// AliasKindCustom is an address on the viewer's own subdomain.
	AliasKindCustom
)

// String returns the route segment for the kind.
func (k AliasKind) String() string {
	switch k {
	case AliasKindRandom:
		return "random"
	case AliasKindCustom:
		return "custom"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k AliasKind) Valid() bool {
	return k == AliasKindRandom || k == AliasKindCustom
}

// ParseAliasKind parses a route or form value.
func ParseAliasKind(value string) (AliasKind, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "random":
		return AliasKindRandom, true
	case "custom":
		return AliasKindCustom, true
	default:
		return aliasKindInvalid, false
	}
}

// Profile is the viewer's account settings record.
type Profile struct {
	ID              int64
	HasPremium      bool
	OnboardingState int
	Subdomain       *string
	APIToken        string
}

// HasSubdomain reports whether a subdomain is registered.
func (p Profile) HasSubdomain() bool {
	return p.Subdomain != nil && *p.Subdomain != ""
}

// SubdomainValue returns the subdomain or "".
func (p Profile) SubdomainValue() string {
	if p.Subdomain == nil {
		return ""
	}
	return *p.Subdomain
}

// ProfileUpdate carries the profile fields a request may change. Nil fields
// are left untouched.
type ProfileUpdate struct {
	OnboardingState *int
	Subdomain       *string
}

// User is the viewer's identity record.
type User struct {
	ID    int64
	Email string
}

// Alias is one email mask.
type Alias struct {
	ID           int64
	Kind         AliasKind
	Address      string
	FullAddress  string
	Domain       string
	Enabled      bool
	Description  string
	NumBlocked   int
	NumForwarded int
	CreatedAt    time.Time
}

// AliasCreate requests a new alias. Address is only read for custom aliases.
type AliasCreate struct {
	Kind    AliasKind
	Address string
}

// AliasUpdate carries the alias fields a request may change.
type AliasUpdate struct {
	Enabled     *bool
	Description *string
}

// PremiumPlan is one purchasable premium price point.
type PremiumPlan struct {
	ID       string
	Price    string
	Currency string
}

// PremiumCountryData describes premium availability for the viewer's
// country. Plan is meaningless when Available is false.
type PremiumCountryData struct {
	CountryCode string
	Available   bool
	Plan        PremiumPlan
}

// IsPremiumAvailable reports whether premium can be purchased. A nil value
// means the data is not known and is treated as unavailable.
func IsPremiumAvailable(data *PremiumCountryData) bool {
	return data != nil && data.Available
}
