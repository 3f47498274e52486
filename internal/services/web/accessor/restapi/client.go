// Package restapi implements the accessors over the relay JSON API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/relayweb/internal/platform/metrics"
	"github.com/louisbranch/relayweb/internal/platform/timeouts"
	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	apperrors "github.com/louisbranch/relayweb/internal/services/web/platform/errors"
)

const (
	tracerName       = "github.com/louisbranch/relayweb/internal/services/web/accessor/restapi"
	defaultCacheTTL  = 5 * time.Minute
	defaultMaxTries  = 3
	maxResponseBytes = 4 << 20
)

// Config configures a Client.
type Config struct {
	// BaseURL is the relay API origin, e.g. https://relay.firefox.com.
	BaseURL string
	// HTTPClient defaults to a client bounded by timeouts.AccessorRequest.
	HTTPClient *http.Client
	// Cache stores public runtime data. Defaults to an in-process TTL cache.
	Cache    Cache
	CacheTTL time.Duration
	// MaxTries bounds attempts per request, first attempt included.
	MaxTries uint
	// InitialBackoff is the first retry delay.
	InitialBackoff time.Duration
}

// Client speaks the relay REST API and opens per-viewer accessors.
type Client struct {
	base           *url.URL
	http           *http.Client
	cache          Cache
	cacheTTL       time.Duration
	maxTries       uint
	initialBackoff time.Duration
	tracer         trace.Tracer
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be an absolute http(s) url", cfg.BaseURL)
	}
	c := &Client{
		base:           base,
		http:           cfg.HTTPClient,
		cache:          cfg.Cache,
		cacheTTL:       cfg.CacheTTL,
		maxTries:       cfg.MaxTries,
		initialBackoff: cfg.InitialBackoff,
		tracer:         otel.Tracer(tracerName),
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: timeouts.AccessorRequest}
	}
	if c.cache == nil {
		c.cache = NewTTLCache(time.Now)
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = defaultCacheTTL
	}
	if c.maxTries == 0 {
		c.maxTries = defaultMaxTries
	}
	if c.initialBackoff <= 0 {
		c.initialBackoff = 200 * time.Millisecond
	}
	return c, nil
}

// Open implements accessor.Backend.
func (c *Client) Open(token string) accessor.Accessors {
	s := session{client: c, token: strings.TrimSpace(token)}
	return accessor.Accessors{
		Profiles:         profiles{s},
		Users:            users{s},
		RandomAliases:    aliases{session: s, collection: relayAddressesPath},
		CustomAliases:    aliases{session: s, collection: domainAddressesPath},
		PremiumCountries: premiumCountries{s},
	}
}

// session is one viewer's credential bound to the shared client.
type session struct {
	client *Client
	token  string
	// header is added to every request of the session.
	header http.Header
}

// do sends one API request with retries and decodes the JSON response into
// out when out is non-nil. Only transport failures, 429 and 5xx are retried.
func (s session) do(ctx context.Context, resource, method, path string, body any, out any) error {
	ctx, span := s.client.tracer.Start(ctx, "relayapi "+method+" "+resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", resource, err)
		}
		payload = encoded
	}

	attempts := 0
	operation := func() ([]byte, error) {
		attempts++
		return s.attempt(ctx, method, path, payload)
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.client.initialBackoff
	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(s.client.maxTries),
		backoff.WithMaxElapsedTime(timeouts.AccessorRequest),
	)
	span.SetAttributes(attribute.Int("relayapi.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.IncAccessorRequest(resource, string(apperrors.KindOf(err)))
		return err
	}
	metrics.IncAccessorRequest(resource, "ok")
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.E(apperrors.KindUnavailable, fmt.Sprintf("decode %s response: %v", resource, err))
	}
	return nil
}

func (s session) attempt(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	target := s.client.base.JoinPath(path)
	// JoinPath drops the trailing slash the API routes require.
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(target.Path, "/") {
		target.Path += "/"
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, values := range s.header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Token "+s.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := s.client.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, backoff.Permanent(ctxErr)
		}
		return nil, apperrors.E(apperrors.KindUnavailable, fmt.Sprintf("relay api %s %s: %v", method, path, err))
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.E(apperrors.KindUnavailable, fmt.Sprintf("read relay api response: %v", err))
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	statusErr := apperrors.E(apperrors.KindFromHTTPStatus(resp.StatusCode),
		fmt.Sprintf("relay api %s %s: status %d: %s", method, path, resp.StatusCode, summarize(data)))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, statusErr
	}
	return nil, backoff.Permanent(statusErr)
}

func summarize(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// IsUnauthorized reports whether err means the viewer's token was rejected.
func IsUnauthorized(err error) bool {
	return apperrors.Is(err, apperrors.KindUnauthorized) || apperrors.Is(err, apperrors.KindForbidden)
}

func (s session) requireToken() error {
	if s.token == "" {
		return apperrors.E(apperrors.KindUnauthorized, "api token is required")
	}
	return nil
}
