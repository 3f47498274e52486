package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/relayweb/internal/platform/logging"
	"github.com/louisbranch/relayweb/internal/platform/metrics"
	"github.com/louisbranch/relayweb/internal/platform/timeouts"
	"github.com/louisbranch/relayweb/internal/services/web/analytics"
	"github.com/louisbranch/relayweb/internal/services/web/composition"
	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
	"github.com/louisbranch/relayweb/internal/services/web/static"
)

// Backend kinds.
const (
	BackendMemory  = "memory"
	BackendRESTAPI = "restapi"
)

// Dismissal store kinds.
const (
	DismissalsCookie = "cookie"
	DismissalsMemory = "memory"
	DismissalsSQLite = "sqlite"
	DismissalsRedis  = "redis"
)

// Config holds the server settings.
type Config struct {
	HTTPAddr string
	Runtime  runtimeconfig.Config

	// Backend selects the relay data source.
	Backend    string
	APIBaseURL string
	// CacheTTL bounds how long public runtime data is reused.
	CacheTTL time.Duration
	// RedisURL enables the shared response cache and the redis dismissal
	// store.
	RedisURL string

	Dismissals string
	SQLitePath string

	// DevToken signs every request in as this token when no session cookie
	// is present. Only meant for local development.
	DevToken            string
	TrustForwardedProto bool
	ImpressionTTL       time.Duration
}

// Server runs the dashboard HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	closers    []io.Closer
}

// NewServer builds a configured web server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if err := config.Runtime.Validate(); err != nil {
		return nil, fmt.Errorf("runtime config: %w", err)
	}

	server := &Server{httpAddr: httpAddr}
	handler, err := server.buildHandler(ctx, config)
	if err != nil {
		server.Close()
		return nil, err
	}
	server.httpServer = &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return server, nil
}

func (s *Server) buildHandler(ctx context.Context, config Config) (http.Handler, error) {
	stores, err := openInfra(ctx, config)
	s.closers = append(s.closers, stores.closers...)
	if err != nil {
		return nil, err
	}
	backend, err := buildBackend(config, stores)
	if err != nil {
		return nil, err
	}
	policy := requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto}
	sink := analytics.LogSink{}
	impressions := analytics.NewImpressions(sink, analytics.WithMountTTL(config.ImpressionTTL))
	principal := newPrincipalResolver(config.DevToken, policy)
	dismissals := newDismissalResolver(config.Dismissals, stores, policy)

	metrics.Register()
	return composition.ComposeAppHandler(composition.ComposeInput{
		Principal: composition.PrincipalResolvers{
			Attach:        principal.attach,
			AuthRequired:  principal.authRequired,
			ResolveToken:  principal.resolveToken,
			ResolveViewer: principal.resolveViewer,
			Dismissals:    dismissals.resolve,
		},
		ModuleDependencies: module.Dependencies{
			Config:      config.Runtime,
			Backend:     backend,
			Sink:        sink,
			Impressions: impressions,
		},
		RequestSchemePolicy: policy,
		Static:              http.FileServerFS(static.FS),
		Metrics:             metrics.Handler(),
	})
}

// Handler returns the composed root handler.
func (s *Server) Handler() http.Handler {
	if s == nil || s.httpServer == nil {
		return nil
	}
	return s.httpServer.Handler
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	log := logging.FromContext(ctx)
	s.httpServer.BaseContext = func(net.Listener) context.Context { return logging.WithLogger(context.Background(), log) }

	serveErr := make(chan error, 1)
	log.Info("web listening", zap.String("addr", s.httpAddr))
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases storage handles held by the server.
func (s *Server) Close() {
	if s == nil {
		return
	}
	for idx := len(s.closers) - 1; idx >= 0; idx-- {
		if err := s.closers[idx].Close(); err != nil {
			logging.Logger().Warn("close web resource", zap.Error(err))
		}
	}
	s.closers = nil
}
