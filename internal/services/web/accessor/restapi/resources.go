package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/louisbranch/relayweb/internal/platform/metrics"
	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	apperrors "github.com/louisbranch/relayweb/internal/services/web/platform/errors"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
)

type profiles struct{ session }

func (p profiles) List(ctx context.Context) ([]relay.Profile, error) {
	if err := p.requireToken(); err != nil {
		return nil, err
	}
	var body []profileJSON
	if err := p.do(ctx, "profiles", http.MethodGet, profilesPath, nil, &body); err != nil {
		return nil, err
	}
	out := make([]relay.Profile, 0, len(body))
	for _, item := range body {
		out = append(out, item.domain())
	}
	return out, nil
}

func (p profiles) Update(ctx context.Context, id int64, update relay.ProfileUpdate) error {
	if err := p.requireToken(); err != nil {
		return err
	}
	patch := profilePatchJSON{OnboardingState: update.OnboardingState, Subdomain: update.Subdomain}
	return p.do(ctx, "profiles", http.MethodPatch, itemPath(profilesPath, id), patch, nil)
}

type users struct{ session }

func (u users) List(ctx context.Context) ([]relay.User, error) {
	if err := u.requireToken(); err != nil {
		return nil, err
	}
	var body []userJSON
	if err := u.do(ctx, "users", http.MethodGet, usersPath, nil, &body); err != nil {
		return nil, err
	}
	out := make([]relay.User, 0, len(body))
	for _, item := range body {
		out = append(out, relay.User{ID: item.ID, Email: item.Email})
	}
	return out, nil
}

type aliases struct {
	session
	collection string
}

func (a aliases) kind() relay.AliasKind {
	if a.collection == domainAddressesPath {
		return relay.AliasKindCustom
	}
	return relay.AliasKindRandom
}

func (a aliases) resource() string {
	return a.kind().String() + "_aliases"
}

func (a aliases) List(ctx context.Context) ([]relay.Alias, error) {
	if err := a.requireToken(); err != nil {
		return nil, err
	}
	var body []aliasJSON
	if err := a.do(ctx, a.resource(), http.MethodGet, a.collection, nil, &body); err != nil {
		return nil, err
	}
	kind := a.kind()
	out := make([]relay.Alias, 0, len(body))
	for _, item := range body {
		out = append(out, item.domain(kind))
	}
	return out, nil
}

func (a aliases) Create(ctx context.Context, create relay.AliasCreate) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	body := aliasCreateJSON{Enabled: true}
	if a.kind() == relay.AliasKindCustom {
		address, ok := relay.NormalizeAliasAddress(create.Address)
		if !ok {
			return apperrors.EK(apperrors.KindInvalidInput, "error-alias-address-invalid", fmt.Sprintf("invalid alias address %q", create.Address))
		}
		body.Address = address
	}
	return a.do(ctx, a.resource(), http.MethodPost, a.collection, body, nil)
}

func (a aliases) Update(ctx context.Context, id int64, update relay.AliasUpdate) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	patch := aliasPatchJSON{Enabled: update.Enabled, Description: update.Description}
	return a.do(ctx, a.resource(), http.MethodPatch, itemPath(a.collection, id), patch, nil)
}

func (a aliases) Delete(ctx context.Context, id int64) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	return a.do(ctx, a.resource(), http.MethodDelete, itemPath(a.collection, id), nil, nil)
}

// premiumCountries reads the public runtime data. The API answers for the
// region of the request, so the viewer's region headers are forwarded and the
// response is cached per region rather than per token.
type premiumCountries struct{ session }

const runtimeDataCacheKey = "relayweb:runtime_data:"

func (p premiumCountries) Load(ctx context.Context) (*relay.PremiumCountryData, error) {
	region := accessor.RegionFrom(ctx)
	key := runtimeDataCacheKey + region.Key()
	cache := p.client.cache
	if cached, ok, err := cache.Get(ctx, key); err == nil && ok {
		var body runtimeDataJSON
		if err := json.Unmarshal(cached, &body); err == nil {
			metrics.IncCacheRequest("runtime_data", "hit")
			return body.premiumCountryData(region.Languages), nil
		}
	}
	metrics.IncCacheRequest("runtime_data", "miss")

	var raw json.RawMessage
	public := session{client: p.client, header: regionHeader(region)}
	if err := public.do(ctx, "runtime_data", http.MethodGet, runtimeDataPath, nil, &raw); err != nil {
		return nil, err
	}
	var body runtimeDataJSON
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, apperrors.E(apperrors.KindUnavailable, fmt.Sprintf("decode runtime data: %v", err))
	}
	// A cache write failure only costs the next request a refetch.
	_ = cache.Set(ctx, key, raw, p.client.cacheTTL)
	return body.premiumCountryData(region.Languages), nil
}

func regionHeader(region accessor.Region) http.Header {
	header := http.Header{}
	if value := region.AcceptLanguage(); value != "" {
		header.Set("Accept-Language", value)
	}
	if region.Country != "" {
		header.Set(accessor.ClientRegionHeader, region.Country)
	}
	return header
}

func itemPath(collection string, id int64) string {
	return collection + strconv.FormatInt(id, 10) + "/"
}
