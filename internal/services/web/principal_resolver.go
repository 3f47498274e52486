package web

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/relayweb/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/relayweb/internal/services/web/platform/webctx"
)

// principalResolver turns the session cookie into a request token.
type principalResolver struct {
	devToken string
	policy   requestmeta.SchemePolicy
}

func newPrincipalResolver(devToken string, policy requestmeta.SchemePolicy) principalResolver {
	return principalResolver{devToken: strings.TrimSpace(devToken), policy: policy}
}

// attach stores the viewer token and region on the request context. With a
// dev token configured, a browser without a session is given one.
func (p principalResolver) attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(accessor.WithRegion(r.Context(), accessor.RegionFromRequest(r)))
		token, ok := sessioncookie.Read(r)
		if !ok && p.devToken != "" {
			token = p.devToken
			sessioncookie.Write(w, r, token, p.policy)
		}
		if token != "" {
			r = r.WithContext(webctx.WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

func (p principalResolver) resolveToken(r *http.Request) string {
	return webctx.RequestToken(r)
}

func (p principalResolver) authRequired(r *http.Request) bool {
	return p.resolveToken(r) != ""
}

// resolveViewer reports chrome state. The email is only known once a
// handler has loaded the viewer's user record.
func (p principalResolver) resolveViewer(r *http.Request) module.Viewer {
	if !p.authRequired(r) {
		return module.Viewer{}
	}
	return module.Viewer{SignedIn: true, Email: webctx.ViewerEmail(r)}
}

// viewerScope namespaces server-side dismissals per viewer without storing
// the token itself.
func viewerScope(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return "anonymous"
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
