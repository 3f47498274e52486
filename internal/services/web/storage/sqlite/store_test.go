package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/relayweb/internal/services/web/dismissal"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(" "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	at := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	if _, ok, err := store.Get(ctx, "u1:promo"); ok || err != nil {
		t.Fatalf("get missing = %v, %v", ok, err)
	}
	if err := store.Put(ctx, dismissal.Record{Key: "u1:promo", DismissedAt: at}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, dismissal.Record{Key: "u1:promo", DismissedAt: at.Add(time.Hour)}); err != nil {
		t.Fatalf("put again: %v", err)
	}
	got, ok, err := store.Get(ctx, "u1:promo")
	if err != nil || !ok {
		t.Fatalf("get = %v, %v", ok, err)
	}
	if !got.DismissedAt.Equal(at.Add(time.Hour)) {
		t.Fatalf("dismissed_at = %v, want %v", got.DismissedAt, at.Add(time.Hour))
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "web.db")
	ctx := context.Background()
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Put(ctx, dismissal.Record{Key: "k", DismissedAt: time.Unix(100, 0)}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if _, ok, err := second.Get(ctx, "k"); !ok || err != nil {
		t.Fatalf("get after reopen = %v, %v", ok, err)
	}
}

func TestTrackerOverSQLite(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	tracker := dismissal.NewTracker(openTempStore(t), "user-9", func() time.Time { return now })
	ctx := context.Background()
	if err := tracker.Dismiss(ctx, "profile-addon"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if !tracker.IsDismissed(ctx, *dismissal.Forever("profile-addon")) {
		t.Fatal("expected dismissed")
	}
}
