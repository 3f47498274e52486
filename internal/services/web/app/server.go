package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/louisbranch/relayweb/internal/services/web/platform/httpx"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
)

const maxRequestBytes = 1 << 20

// BuildRootHandler composes the root router: platform routes first, then the
// configured module groups behind the shared middleware stack.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	router := chi.NewRouter()
	if cfg.SchemePolicy.TrustForwardedProto {
		router.Use(chimiddleware.RealIP)
	}
	router.Use(
		httpx.RequestID(),
		httpx.RecoverPanic(),
		httpx.AccessLog(),
		httpx.SecurityHeaders(),
		chimiddleware.RequestSize(maxRequestBytes),
		httpx.SameOrigin(cfg.SchemePolicy),
	)
	if cfg.Principal != nil {
		router.Use(cfg.Principal)
	}
	router.MethodNotAllowed(httpx.MethodNotAllowed(http.MethodGet + ", " + http.MethodPost))

	router.Get(routepath.Health, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	})
	if cfg.Metrics != nil {
		router.Method(http.MethodGet, routepath.Metrics, cfg.Metrics)
	}
	if cfg.Static != nil {
		router.Handle(routepath.StaticPrefix+"*", http.StripPrefix(routepath.StaticPrefix, cfg.Static))
	}

	if err := Compose(router, ComposeInput{
		AuthRequired:     cfg.AuthRequired,
		SignInURL:        cfg.SignInURL,
		PublicModules:    cfg.PublicModules,
		ProtectedModules: cfg.ProtectedModules,
	}); err != nil {
		return nil, err
	}
	return router, nil
}
