// Package dismissal records which banners a viewer has closed and answers
// whether a banner is still suppressed.
package dismissal

import (
	"context"
	"strings"
	"time"
)

// Descriptor names a dismissible banner. A nil Duration suppresses the
// banner forever once dismissed; otherwise it reappears Duration after the
// dismissal.
type Descriptor struct {
	Key      string
	Duration *time.Duration
}

// For builds a descriptor that expires after d.
func For(key string, d time.Duration) *Descriptor {
	return &Descriptor{Key: key, Duration: &d}
}

// Forever builds a descriptor that never expires.
func Forever(key string) *Descriptor {
	return &Descriptor{Key: key}
}

// Record is a stored dismissal.
type Record struct {
	Key         string
	DismissedAt time.Time
}

// Store persists dismissal records. Get reports ok=false for unknown keys.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Put(ctx context.Context, record Record) error
}

// Checker answers whether a banner is currently suppressed.
type Checker interface {
	IsDismissed(ctx context.Context, descriptor Descriptor) bool
}

// Dismisser records a dismissal.
type Dismisser interface {
	Dismiss(ctx context.Context, key string) error
}

// Tracker binds a store to a viewer scope and a clock.
type Tracker struct {
	store Store
	scope string
	now   func() time.Time
}

// NewTracker builds a tracker. Scope namespaces keys in stores shared
// between viewers and may be empty for per-browser stores.
func NewTracker(store Store, scope string, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, scope: strings.TrimSpace(scope), now: now}
}

func (t *Tracker) storageKey(key string) string {
	key = strings.TrimSpace(key)
	if t.scope == "" {
		return key
	}
	return t.scope + ":" + key
}

// IsDismissed reports whether descriptor names a banner dismissed within
// its duration. Store failures read as not dismissed so a broken store
// never hides content.
func (t *Tracker) IsDismissed(ctx context.Context, descriptor Descriptor) bool {
	if t == nil || t.store == nil || strings.TrimSpace(descriptor.Key) == "" {
		return false
	}
	record, ok, err := t.store.Get(ctx, t.storageKey(descriptor.Key))
	if err != nil || !ok {
		return false
	}
	if descriptor.Duration == nil {
		return true
	}
	return t.now().Sub(record.DismissedAt) < *descriptor.Duration
}

// Dismiss records key as dismissed now.
func (t *Tracker) Dismiss(ctx context.Context, key string) error {
	if t == nil || t.store == nil {
		return errNoStore
	}
	if strings.TrimSpace(key) == "" {
		return errEmptyKey
	}
	return t.store.Put(ctx, Record{Key: t.storageKey(key), DismissedAt: t.now().UTC()})
}
