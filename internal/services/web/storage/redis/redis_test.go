package redis

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/louisbranch/relayweb/internal/services/web/dismissal"
)

func openTestClient(t *testing.T) *Client {
	t.Helper()
	url := os.Getenv("RELAY_WEB_TEST_REDIS_URL")
	if url == "" {
		t.Skip("RELAY_WEB_TEST_REDIS_URL not set")
	}
	client, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("open redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func uniqueKey(t *testing.T) string {
	return t.Name() + ":" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

func TestOpenRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected empty url error")
	}
	if _, err := Open(context.Background(), "http://not-redis"); err == nil {
		t.Fatal("expected scheme error")
	}
}

func TestDismissalStoreRoundTrip(t *testing.T) {
	client := openTestClient(t)
	store := client.Dismissals()
	ctx := context.Background()
	key := uniqueKey(t)
	at := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	if _, ok, err := store.Get(ctx, key); ok || err != nil {
		t.Fatalf("get missing = %v, %v", ok, err)
	}
	if err := store.Put(ctx, dismissal.Record{Key: key, DismissedAt: at}); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get = %v, %v", ok, err)
	}
	if !got.DismissedAt.Equal(at) {
		t.Fatalf("dismissed_at = %v, want %v", got.DismissedAt, at)
	}
}

func TestResponseCacheRoundTrip(t *testing.T) {
	client := openTestClient(t)
	cache := client.Cache()
	ctx := context.Background()
	key := uniqueKey(t)

	if err := cache.Set(ctx, key, []byte(`{"a":1}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := cache.Get(ctx, key)
	if err != nil || !ok || string(got) != `{"a":1}` {
		t.Fatalf("get = %q, %v, %v", got, ok, err)
	}
	if err := cache.Set(ctx, key, nil, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, key); ok {
		t.Fatal("key survived delete")
	}
}
