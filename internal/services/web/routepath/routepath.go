// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/louisbranch/relayweb/internal/services/web/relay"
)

const (
	Root                      = "/"
	Health                    = "/up"
	Metrics                   = "/metrics"
	StaticPrefix              = "/static/"
	Premium                   = "/premium/"
	AppPrefix                 = "/app/"
	AppProfile                = "/app/profile/"
	ProfilePrefix             = "/app/profile"
	AppProfileOnboardingStep  = "/app/profile/onboarding/step"
	AppProfileOnboardingSub   = "/app/profile/onboarding/subdomain"
	AppProfileSubdomain       = "/app/profile/subdomain"
	AppProfileAliases         = "/app/profile/aliases"
	AppProfileAliasPattern    = "/aliases/{kind}/{id}"
	AppProfileAliasDelPattern = "/aliases/{kind}/{id}/delete"
	GoPrefix                  = "/go"
	GoPattern                 = "/{intent}"
	BannersPrefix             = "/banners"
	BannersDismiss            = "/banners/dismiss"
	AnalyticsPrefix           = "/analytics"
	AnalyticsImpression       = "/analytics/impression"
	ReturnToField             = "return_to"
)

// Outbound intents handled under GoPrefix.
const (
	IntentSignIn    = "sign-in"
	IntentSubscribe = "subscribe"
	IntentWaitlist  = "waitlist"
	IntentAddon     = "addon"
)

// Go returns the tracked navigation route for intent.
func Go(intent string) string {
	return GoPrefix + "/" + escapeSegment(intent)
}

// GoWithLabel returns the tracked navigation route carrying the analytics label.
func GoWithLabel(intent string, label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return Go(intent)
	}
	return Go(intent) + "?" + url.Values{"label": {label}}.Encode()
}

// AppProfileAlias returns the alias update route.
func AppProfileAlias(kind relay.AliasKind, id int64) string {
	return AppProfileAliases + "/" + kind.String() + "/" + formatID(id)
}

// AppProfileAliasDelete returns the alias delete route.
func AppProfileAliasDelete(kind relay.AliasKind, id int64) string {
	return AppProfileAlias(kind, id) + "/delete"
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
