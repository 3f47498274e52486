package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestImpressionRecordedOncePerToken(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	impressions := NewImpressions(rec)
	attrs := impressions.OnBecameVisible(Ping{Category: "Purchase Button", Label: "profile-bottom-promo"})
	token, _ := attrs[AttrToken].(string)
	if token == "" {
		t.Fatalf("attrs = %v, want token", attrs)
	}

	ctx := context.Background()
	if !impressions.Record(ctx, token) {
		t.Fatal("first Record() = false")
	}
	if impressions.Record(ctx, token) {
		t.Fatal("second Record() = true")
	}
	want := []Event{{Category: "Purchase Button", Action: ActionView, Label: "profile-bottom-promo"}}
	if diff := cmp.Diff(want, rec.Events()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestImpressionConcurrentBeaconsRecordOnce(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	impressions := NewImpressions(rec)
	token := impressions.OnBecameVisible(Ping{Category: "Sign In", Label: "landing-pricing-free-cta"})[AttrToken].(string)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			impressions.Record(context.Background(), token)
		}()
	}
	wg.Wait()
	if got := len(rec.Events()); got != 1 {
		t.Fatalf("events = %d, want 1", got)
	}
}

func TestImpressionTokensExpireAndSweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
	impressions := NewImpressions(&Recorder{}, WithClock(clock), WithMountTTL(time.Minute))
	token := impressions.OnBecameVisible(Ping{Category: "c", Label: "l"})[AttrToken].(string)

	advance(time.Minute)
	if impressions.Record(context.Background(), token) {
		t.Fatal("expired token recorded")
	}
	impressions.OnBecameVisible(Ping{Category: "c", Label: "l2"})
	if got := impressions.Pending(); got != 1 {
		t.Fatalf("pending = %d, want 1 after sweep", got)
	}
}

func TestBeaconHandler(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	impressions := NewImpressions(rec)
	token := impressions.OnBecameVisible(Ping{Category: "Sign In", Label: "x"})[AttrToken].(string)
	handler := BeaconHandler(impressions)

	for range 2 {
		form := url.Values{"token": {token}}
		req := httptest.NewRequest(http.MethodPost, BeaconPath, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
		}
	}
	if got := len(rec.Events()); got != 1 {
		t.Fatalf("events = %d, want 1", got)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, BeaconPath, nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestFanoutAndLogSink(t *testing.T) {
	t.Parallel()

	first, second := &Recorder{}, &Recorder{}
	Fanout{first, nil, LogSink{}, second}.Emit(context.Background(), Event{Category: " Sign In ", Action: ActionEngage})
	if len(first.Events()) != 1 || len(second.Events()) != 1 {
		t.Fatalf("fanout delivered %d/%d", len(first.Events()), len(second.Events()))
	}
	if got := first.Events()[0].Category; got != "Sign In" {
		t.Fatalf("category = %q, want trimmed", got)
	}
}
