// Package metrics holds the prometheus collectors exported by the web service.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relay_web"

var (
	registerOnce sync.Once
	registry     = prometheus.NewRegistry()

	analyticsEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_events_total",
			Help:      "Analytics events emitted by page interactions.",
		},
		[]string{"category", "action"},
	)
	impressions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "impressions_total",
			Help:      "Elements reported visible by the client, at most once per mount.",
		},
		[]string{"category", "label"},
	)
	accessorRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accessor_requests_total",
			Help:      "Remote data accessor calls by resource and outcome.",
		},
		[]string{"resource", "result"},
	)
	cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Read cache hits and misses.",
		},
		[]string{"cache", "result"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

// Register installs all collectors exactly once.
func Register() {
	registerOnce.Do(func() {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			analyticsEvents,
			impressions,
			accessorRequests,
			cacheRequests,
			httpDuration,
		)
	})
}

// Handler exposes the registry in the prometheus text format.
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// IncAnalyticsEvent counts one emitted analytics event.
func IncAnalyticsEvent(category, action string) {
	analyticsEvents.WithLabelValues(norm(category), norm(action)).Inc()
}

// IncImpression counts one recorded impression.
func IncImpression(category, label string) {
	impressions.WithLabelValues(norm(category), norm(label)).Inc()
}

// IncAccessorRequest counts one accessor call; result is "ok" or an error kind.
func IncAccessorRequest(resource, result string) {
	accessorRequests.WithLabelValues(norm(resource), norm(result)).Inc()
}

// IncCacheRequest counts a cache lookup; result is "hit" or "miss".
func IncCacheRequest(cache, result string) {
	cacheRequests.WithLabelValues(norm(cache), norm(result)).Inc()
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method string, status int, elapsed time.Duration) {
	httpDuration.WithLabelValues(norm(method), strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func norm(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
