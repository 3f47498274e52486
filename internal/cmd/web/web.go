// Package web parses dashboard service flags and launches the service.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/relayweb/internal/platform/cmd"
	"github.com/louisbranch/relayweb/internal/platform/logging"
	"github.com/louisbranch/relayweb/internal/services/web"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
)

// DotEnvPath is loaded before the environment is read when present.
const DotEnvPath = ".env"

// Config holds the web command configuration.
type Config struct {
	HTTPAddr string `env:"RELAY_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	LogLevel string `env:"RELAY_WEB_LOG_LEVEL" envDefault:"info"`
	DevLogs  bool   `env:"RELAY_WEB_DEV_LOGS"`

	Backend    string        `env:"RELAY_WEB_BACKEND" envDefault:"memory"`
	APIBaseURL string        `env:"RELAY_WEB_API_BASE_URL" envDefault:"http://127.0.0.1:8000"`
	CacheTTL   time.Duration `env:"RELAY_WEB_CACHE_TTL" envDefault:"5m"`
	RedisURL   string        `env:"RELAY_WEB_REDIS_URL"`

	Dismissals string `env:"RELAY_WEB_DISMISSALS" envDefault:"cookie"`
	SQLitePath string `env:"RELAY_WEB_SQLITE_PATH" envDefault:"data/web.db"`

	DevToken            string        `env:"RELAY_WEB_DEV_TOKEN"`
	TrustForwardedProto bool          `env:"RELAY_WEB_TRUST_FORWARDED_PROTO"`
	ImpressionTTL       time.Duration `env:"RELAY_WEB_IMPRESSION_TTL" envDefault:"30m"`

	Runtime runtimeconfig.Config `envPrefix:"RELAY_WEB_"`
}

// ParseConfig parses the optional .env file, the environment and then flags
// into Config. Flags are bound first so an explicit flag wins over the
// environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.HTTPAddr, "http-addr", "", "HTTP listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Backend, "backend", "", "Relay data source (memory, restapi)")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", "", "Relay API origin")
	fs.StringVar(&cfg.Dismissals, "dismissals", "", "Banner dismissal store (cookie, memory, sqlite, redis)")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", "", "SQLite dismissal database path")
	fs.StringVar(&cfg.DevToken, "dev-token", "", "Sign every browser in with this token (development only)")
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, DotEnvPath); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the dashboard web server.
func Run(ctx context.Context, cfg Config) error {
	if err := logging.Init(logging.Options{Level: cfg.LogLevel, Development: cfg.DevLogs}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logging.Sync() }()

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			Runtime:             cfg.Runtime,
			Backend:             cfg.Backend,
			APIBaseURL:          cfg.APIBaseURL,
			CacheTTL:            cfg.CacheTTL,
			RedisURL:            cfg.RedisURL,
			Dismissals:          cfg.Dismissals,
			SQLitePath:          cfg.SQLitePath,
			DevToken:            cfg.DevToken,
			TrustForwardedProto: cfg.TrustForwardedProto,
			ImpressionTTL:       cfg.ImpressionTTL,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
