package app

import (
	"net/http"

	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
)

// Config captures the composition inputs for the web root handler.
type Config struct {
	PublicModules    []module.Module
	ProtectedModules []module.Module
	// AuthRequired reports whether a request carries viewer credentials.
	AuthRequired func(*http.Request) bool
	// SignInURL receives protected requests without credentials.
	SignInURL    string
	SchemePolicy requestmeta.SchemePolicy
	// Principal attaches viewer credentials to the request context before
	// any module runs.
	Principal func(http.Handler) http.Handler
	// Static serves the embedded assets. Nil disables /static/.
	Static http.Handler
	// Metrics serves the Prometheus scrape endpoint. Nil disables /metrics.
	Metrics http.Handler
}
