package dismissal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
)

// CookieName holds the per-browser dismissal records.
const CookieName = "relay_dismissals"

const (
	maxCookieRecords = 32
	cookieMaxAge     = 400 * 24 * time.Hour
)

// CookieStore keeps records in a browser cookie, scoped to one request.
// Reads see writes made earlier in the same request.
type CookieStore struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	r       *http.Request
	policy  requestmeta.SchemePolicy
	records map[string]int64
}

// NewCookieStore decodes the dismissal cookie of r. Malformed cookies are
// treated as empty.
func NewCookieStore(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) *CookieStore {
	store := &CookieStore{w: w, r: r, policy: policy, records: map[string]int64{}}
	if r == nil {
		return store
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return store
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return store
	}
	decoded := map[string]int64{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return store
	}
	store.records = decoded
	return store
}

// Get implements Store.
func (s *CookieStore) Get(_ context.Context, key string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unix, ok := s.records[key]
	if !ok {
		return Record{}, false, nil
	}
	return Record{Key: key, DismissedAt: time.Unix(unix, 0).UTC()}, true, nil
}

// Put implements Store and rewrites the cookie. The oldest records are
// evicted past maxCookieRecords.
func (s *CookieStore) Put(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Key] = record.DismissedAt.Unix()
	s.evict()
	encoded, err := json.Marshal(s.records)
	if err != nil {
		return err
	}
	if s.w == nil {
		return nil
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(encoded),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(s.r, s.policy),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *CookieStore) evict() {
	if len(s.records) <= maxCookieRecords {
		return
	}
	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if s.records[keys[i]] == s.records[keys[j]] {
			return keys[i] < keys[j]
		}
		return s.records[keys[i]] < s.records[keys[j]]
	})
	for _, key := range keys[:len(keys)-maxCookieRecords] {
		delete(s.records, key)
	}
}
