// Package analytics records engagement events and CTA impressions.
package analytics

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/louisbranch/relayweb/internal/platform/logging"
	"github.com/louisbranch/relayweb/internal/platform/metrics"
)

// Event is one analytics interaction.
type Event struct {
	Category string
	Action   string
	Label    string
}

// Ping names the impression a CTA reports when it becomes visible.
type Ping struct {
	Category string
	Label    string
}

// Common actions.
const (
	ActionEngage = "Engage"
	ActionView   = "View"
)

// Sink receives events. Emit must not block on remote delivery and never
// fails the caller.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// LogSink writes events to the request logger and counts them.
type LogSink struct{}

// Emit implements Sink.
func (LogSink) Emit(ctx context.Context, event Event) {
	event = normalize(event)
	metrics.IncAnalyticsEvent(event.Category, event.Action)
	logging.FromContext(ctx).Info("analytics event",
		zap.String("category", event.Category),
		zap.String("action", event.Action),
		zap.String("label", event.Label),
	)
}

func normalize(event Event) Event {
	return Event{
		Category: strings.TrimSpace(event.Category),
		Action:   strings.TrimSpace(event.Action),
		Label:    strings.TrimSpace(event.Label),
	}
}

// Recorder keeps events in memory. Tests and local runs use it to inspect
// what a flow emitted.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Sink.
func (r *Recorder) Emit(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, normalize(event))
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Fanout emits to every sink in order.
type Fanout []Sink

// Emit implements Sink.
func (f Fanout) Emit(ctx context.Context, event Event) {
	for _, sink := range f {
		if sink != nil {
			sink.Emit(ctx, event)
		}
	}
}
