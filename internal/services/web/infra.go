package web

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	"github.com/louisbranch/relayweb/internal/services/web/accessor/memory"
	"github.com/louisbranch/relayweb/internal/services/web/accessor/restapi"
	"github.com/louisbranch/relayweb/internal/services/web/dismissal"
	webredis "github.com/louisbranch/relayweb/internal/services/web/storage/redis"
	websqlite "github.com/louisbranch/relayweb/internal/services/web/storage/sqlite"
)

// infra holds the storage handles opened for one server.
type infra struct {
	redis   *webredis.Client
	sqlite  *websqlite.Store
	closers []io.Closer
}

func openInfra(ctx context.Context, config Config) (infra, error) {
	var out infra
	kind := strings.TrimSpace(config.Dismissals)
	switch kind {
	case "", DismissalsCookie, DismissalsMemory, DismissalsSQLite, DismissalsRedis:
	default:
		return out, fmt.Errorf("unknown dismissal store %q", kind)
	}
	if kind == DismissalsRedis && strings.TrimSpace(config.RedisURL) == "" {
		return out, fmt.Errorf("dismissal store %q requires a redis url", kind)
	}
	if strings.TrimSpace(config.RedisURL) != "" {
		client, err := webredis.Open(ctx, config.RedisURL)
		if err != nil {
			return out, fmt.Errorf("open redis: %w", err)
		}
		out.redis = client
		out.closers = append(out.closers, client)
	}
	if kind == DismissalsSQLite {
		store, err := websqlite.Open(config.SQLitePath)
		if err != nil {
			return out, fmt.Errorf("open dismissal store: %w", err)
		}
		out.sqlite = store
		out.closers = append(out.closers, store)
	}
	return out, nil
}

// sharedDismissals returns the server-side store for kind, or nil when
// dismissals live in the browser cookie.
func (i infra) sharedDismissals(kind string) dismissal.Store {
	switch kind {
	case DismissalsMemory:
		return dismissal.NewMemoryStore()
	case DismissalsSQLite:
		return i.sqlite
	case DismissalsRedis:
		return i.redis.Dismissals()
	default:
		return nil
	}
}

func buildBackend(config Config, stores infra) (accessor.Backend, error) {
	switch strings.TrimSpace(config.Backend) {
	case "", BackendMemory:
		store := memory.New(memory.WithDomain(config.Runtime.MozmailDomain))
		seedDevelopment(store, config.DevToken, config.Runtime.MozmailDomain)
		return store, nil
	case BackendRESTAPI:
		cfg := restapi.Config{BaseURL: config.APIBaseURL, CacheTTL: config.CacheTTL}
		if stores.redis != nil {
			cfg.Cache = stores.redis.Cache()
		}
		client, err := restapi.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("build relay api client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", config.Backend)
	}
}
