package impressions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/louisbranch/relayweb/internal/services/web/analytics"
	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
)

func TestBeaconRecordsTokenOnce(t *testing.T) {
	t.Parallel()

	rec := &analytics.Recorder{}
	impressions := analytics.NewImpressions(rec)
	attrs := impressions.OnBecameVisible(analytics.Ping{Category: "Sign In", Label: "landing-pricing-free-cta"})
	token, _ := attrs[analytics.AttrToken].(string)
	if token == "" {
		t.Fatalf("mount token missing from %v", attrs)
	}

	mount, err := New(module.Dependencies{Impressions: impressions}).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	handler := http.StripPrefix(mount.Prefix, mount.Handler)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, routepath.AnalyticsImpression, strings.NewReader(url.Values{"token": {token}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req.WithContext(context.Background()))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
		}
	}
	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Action != analytics.ActionView || events[0].Label != "landing-pricing-free-cta" {
		t.Fatalf("event = %+v", events[0])
	}
}

func TestMountRequiresImpressions(t *testing.T) {
	t.Parallel()

	if _, err := New(module.Dependencies{}).Mount(); err == nil {
		t.Fatal("Mount() without impressions succeeded")
	}
}
