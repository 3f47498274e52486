package restapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	apperrors "github.com/louisbranch/relayweb/internal/services/web/platform/errors"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: string(body)})
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeAPI) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{handler: handler}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	client, err := New(Config{BaseURL: server.URL, MaxTries: 3, InitialBackoff: time.Millisecond})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, api
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "relay.example", "/api"} {
		if _, err := New(Config{BaseURL: raw}); err == nil {
			t.Fatalf("New(%q) error = nil, want error", raw)
		}
	}
}

func TestProfilesListMapsWireFields(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{
			"id": 7, "has_premium": true, "onboarding_state": 2,
			"subdomain": "alias123", "api_token": "tok",
		}})
	})

	got, err := client.Open("tok").Profiles.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	sub := "alias123"
	want := []relay.Profile{{ID: 7, HasPremium: true, OnboardingState: 2, Subdomain: &sub, APIToken: "tok"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("profiles mismatch (-want +got):\n%s", diff)
	}
	reqs := api.recorded()
	if len(reqs) != 1 || reqs[0].Path != profilesPath || reqs[0].Auth != "Token tok" {
		t.Fatalf("requests = %+v", reqs)
	}
}

func TestAliasListSetsKindAndDomain(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{
			"id": 3, "address": "shop", "full_address": "shop@alias123.mozmail.com",
			"enabled": true, "num_blocked": 2, "num_forwarded": 5, "created_at": created,
		}})
	})

	got, err := client.Open("tok").CustomAliases.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Kind != relay.AliasKindCustom {
		t.Fatalf("kind = %v, want custom", got[0].Kind)
	}
	if got[0].Domain != "alias123.mozmail.com" {
		t.Fatalf("domain = %q", got[0].Domain)
	}
	if !got[0].CreatedAt.Equal(created) {
		t.Fatalf("created = %v, want %v", got[0].CreatedAt, created)
	}
}

func TestAliasWritesUseCollectionItemPaths(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	accessors := client.Open("tok")
	ctx := context.Background()
	enabled := false

	if err := accessors.RandomAliases.Create(ctx, relay.AliasCreate{Kind: relay.AliasKindRandom}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := accessors.CustomAliases.Update(ctx, 9, relay.AliasUpdate{Enabled: &enabled}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := accessors.RandomAliases.Delete(ctx, 4); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	reqs := api.recorded()
	got := make([]string, 0, len(reqs))
	for _, req := range reqs {
		got = append(got, req.Method+" "+req.Path+" "+strings.TrimSpace(req.Body))
	}
	want := []string{
		"POST /api/v1/relayaddresses/ {\"enabled\":true}",
		"PATCH /api/v1/domainaddresses/9/ {\"enabled\":false}",
		"DELETE /api/v1/relayaddresses/4/ ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomCreateValidatesAddressBeforeSending(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	err := client.Open("tok").CustomAliases.Create(context.Background(), relay.AliasCreate{Kind: relay.AliasKindCustom, Address: "not valid!"})
	if !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("Create() error = %v, want invalid input", err)
	}
	if n := len(api.recorded()); n != 0 {
		t.Fatalf("requests = %d, want 0", n)
	}
}

func TestRetriesServerErrorsButNotClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, []map[string]any{{"id": 1, "email": "a@example.com"}})
	})
	users, err := client.Open("tok").Users.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 1 || calls.Load() != 3 {
		t.Fatalf("users = %v calls = %d, want 1 user after 3 calls", users, calls.Load())
	}

	var denied atomic.Int32
	client, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		denied.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err = client.Open("tok").Users.List(context.Background())
	if !apperrors.Is(err, apperrors.KindUnauthorized) {
		t.Fatalf("List() error = %v, want unauthorized", err)
	}
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized(%v) = false", err)
	}
	if denied.Load() != 1 {
		t.Fatalf("calls = %d, want 1", denied.Load())
	}
}

func TestEmptyTokenFailsWithoutRequest(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	_, err := client.Open("  ").Users.List(context.Background())
	if !apperrors.Is(err, apperrors.KindUnauthorized) {
		t.Fatalf("List() error = %v, want unauthorized", err)
	}
	if n := len(api.recorded()); n != 0 {
		t.Fatalf("requests = %d, want 0", n)
	}
}

const runtimeDataBody = `{
  "PERIODICAL_PREMIUM_PLANS": {
    "country_code": "de",
    "available_in_country": true,
    "plan_country_lang_mapping": {
      "de": {
        "de": {"id": "price_de", "price": 1.99, "currency": "EUR"},
        "*": {"id": "price_any", "price": 0.99, "currency": "EUR"}
      }
    }
  }
}`

// regionalRuntimeData answers like the relay API: the country comes from the
// edge region header and falls back to "cn" when none is sent.
func regionalRuntimeData(w http.ResponseWriter, r *http.Request) {
	country := strings.ToLower(r.Header.Get(accessor.ClientRegionHeader))
	if country == "" {
		country = "cn"
	}
	available := country != "cn"
	_, _ = io.WriteString(w, `{"PERIODICAL_PREMIUM_PLANS":{"country_code":"`+country+`","available_in_country":`+strconv.FormatBool(available)+`,
  "plan_country_lang_mapping":{"`+country+`":{"de":{"id":"price_de","price":1.99,"currency":"EUR"},"*":{"id":"price_any","price":0.99,"currency":"EUR"}}}}}`)
}

func TestPremiumCountriesFollowViewerRegion(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var mu sync.Mutex
	var seen []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "" {
			t.Errorf("runtime data request carried credentials")
		}
		mu.Lock()
		seen = append(seen, r.Header.Get(accessor.ClientRegionHeader)+"/"+r.Header.Get("Accept-Language"))
		mu.Unlock()
		regionalRuntimeData(w, r)
	})

	tests := []struct {
		name        string
		region      accessor.Region
		wantCountry string
		wantPlan    string
	}{
		{name: "us english", region: accessor.Region{Country: "US", Languages: []language.Tag{language.AmericanEnglish}}, wantCountry: "US", wantPlan: "price_any"},
		{name: "de german", region: accessor.Region{Country: "DE", Languages: []language.Tag{language.German}}, wantCountry: "DE", wantPlan: "price_de"},
		{name: "no region", wantCountry: "CN"},
	}
	for _, tc := range tests {
		ctx := accessor.WithRegion(context.Background(), tc.region)
		// Two loads per region: the second must come from the cache.
		for _, token := range []string{"one", "two"} {
			data, err := client.Open(token).PremiumCountries.Load(ctx)
			if err != nil {
				t.Fatalf("%s: Load() error = %v", tc.name, err)
			}
			if data.CountryCode != tc.wantCountry {
				t.Fatalf("%s: country = %q, want %q", tc.name, data.CountryCode, tc.wantCountry)
			}
			if got := data.Plan.ID; got != tc.wantPlan {
				t.Fatalf("%s: plan = %q, want %q", tc.name, got, tc.wantPlan)
			}
			if relay.IsPremiumAvailable(data) != (tc.wantPlan != "") {
				t.Fatalf("%s: available = %v", tc.name, relay.IsPremiumAvailable(data))
			}
		}
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want one per region", calls.Load())
	}
	want := []string{"US/en-US", "DE/de", "/"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("forwarded region headers mismatch (-want +got):\n%s", diff)
	}
}

func TestPremiumCountriesFormatsPrice(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, runtimeDataBody)
	})
	data, err := client.Open("").PremiumCountries.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if data.Plan.ID != "price_any" || data.CountryCode != "DE" {
		t.Fatalf("data = %+v", data)
	}
	if !strings.Contains(data.Plan.Price, "0.99") {
		t.Fatalf("price = %q, want it to contain 0.99", data.Plan.Price)
	}
}

func TestPremiumCountriesUnavailable(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"PERIODICAL_PREMIUM_PLANS":{"country_code":"br","available_in_country":false}}`)
	})
	data, err := client.Open("").PremiumCountries.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if relay.IsPremiumAvailable(data) {
		t.Fatalf("available = true, want false")
	}
}

func TestTTLCacheExpires(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewTTLCache(func() time.Time { return now })
	ctx := context.Background()
	if err := cache.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, ok, _ := cache.Get(ctx, "k"); !ok || string(got) != "v" {
		t.Fatalf("Get() = %q, %v", got, ok)
	}
	now = now.Add(time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Fatalf("Get() after ttl ok = true")
	}
}
