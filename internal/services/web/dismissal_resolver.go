package web

import (
	"net/http"
	"strings"

	"github.com/louisbranch/relayweb/internal/services/web/dismissal"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/relayweb/internal/services/web/platform/webctx"
)

// dismissalResolver builds the per-request dismissal tracker.
type dismissalResolver struct {
	shared dismissal.Store
	policy requestmeta.SchemePolicy
}

func newDismissalResolver(kind string, stores infra, policy requestmeta.SchemePolicy) dismissalResolver {
	return dismissalResolver{shared: stores.sharedDismissals(strings.TrimSpace(kind)), policy: policy}
}

func (d dismissalResolver) resolve(w http.ResponseWriter, r *http.Request) *dismissal.Tracker {
	scope := viewerScope(webctx.RequestToken(r))
	if d.shared != nil {
		return dismissal.NewTracker(d.shared, scope, nil)
	}
	return dismissal.NewTracker(dismissal.NewCookieStore(w, r, d.policy), scope, nil)
}
