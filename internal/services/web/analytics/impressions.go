package analytics

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/oklog/ulid/v2"

	"github.com/louisbranch/relayweb/internal/platform/metrics"
)

// Attribute names the client beacon script reads.
const (
	AttrToken = "data-impression-token"
	AttrPing  = "data-impression"
)

const defaultMountTTL = 30 * time.Minute

// Observer registers elements whose first visibility should be reported.
type Observer interface {
	OnBecameVisible(ping Ping) templ.Attributes
}

type mount struct {
	ping      Ping
	expiresAt time.Time
	recorded  bool
}

// Impressions issues one token per rendered element and records at most one
// impression per token when the client reports visibility.
type Impressions struct {
	sink Sink
	now  func() time.Time
	ttl  time.Duration

	mu        sync.Mutex
	mounts    map[string]*mount
	nextSweep time.Time
}

// ImpressionsOption configures Impressions.
type ImpressionsOption func(*Impressions)

// WithClock overrides the ledger clock.
func WithClock(now func() time.Time) ImpressionsOption {
	return func(i *Impressions) { i.now = now }
}

// WithMountTTL sets how long an unreported token stays valid.
func WithMountTTL(ttl time.Duration) ImpressionsOption {
	return func(i *Impressions) { i.ttl = ttl }
}

// NewImpressions builds a ledger that emits to sink.
func NewImpressions(sink Sink, opts ...ImpressionsOption) *Impressions {
	i := &Impressions{sink: sink, now: time.Now, ttl: defaultMountTTL, mounts: map[string]*mount{}}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	if i.ttl <= 0 {
		i.ttl = defaultMountTTL
	}
	return i
}

// OnBecameVisible implements Observer. The returned attributes go on the
// element the client observes.
func (i *Impressions) OnBecameVisible(ping Ping) templ.Attributes {
	token := ulid.Make().String()
	now := i.now()

	i.mu.Lock()
	i.sweepLocked(now)
	i.mounts[token] = &mount{ping: ping, expiresAt: now.Add(i.ttl)}
	i.mu.Unlock()

	return templ.Attributes{
		AttrToken: token,
		AttrPing:  strings.TrimSpace(ping.Category + ":" + ping.Label),
	}
}

// Record reports the element mounted under token as seen. It returns false
// for unknown, expired or already recorded tokens.
func (i *Impressions) Record(ctx context.Context, token string) bool {
	token = strings.TrimSpace(token)
	now := i.now()

	i.mu.Lock()
	m, ok := i.mounts[token]
	if !ok || m.recorded || !now.Before(m.expiresAt) {
		i.mu.Unlock()
		return false
	}
	m.recorded = true
	ping := m.ping
	i.mu.Unlock()

	metrics.IncImpression(ping.Category, ping.Label)
	if i.sink != nil {
		i.sink.Emit(ctx, Event{Category: ping.Category, Action: ActionView, Label: ping.Label})
	}
	return true
}

// Pending returns the number of tokens still tracked.
func (i *Impressions) Pending() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.mounts)
}

// sweepLocked drops expired tokens at most once per ttl.
func (i *Impressions) sweepLocked(now time.Time) {
	if now.Before(i.nextSweep) {
		return
	}
	for token, m := range i.mounts {
		if !now.Before(m.expiresAt) {
			delete(i.mounts, token)
		}
	}
	i.nextSweep = now.Add(i.ttl)
}
