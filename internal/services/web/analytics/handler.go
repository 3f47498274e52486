package analytics

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/relayweb/internal/platform/logging"
)

// BeaconPath receives client visibility reports.
const BeaconPath = "/analytics/impression"

const maxBeaconBytes = 1 << 10

// BeaconHandler accepts POSTed form values carrying a mount token. It always
// answers 204 so the client never retries.
func BeaconHandler(impressions *Impressions) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBeaconBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		token := r.PostForm.Get("token")
		if impressions != nil && !impressions.Record(r.Context(), token) {
			logging.FromContext(r.Context()).Debug("impression beacon ignored", zap.String("token", token))
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
