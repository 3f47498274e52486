package web

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:8080" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8080")
	}
	if cfg.Backend != "memory" {
		t.Fatalf("Backend = %q, want memory", cfg.Backend)
	}
	if cfg.Dismissals != "cookie" {
		t.Fatalf("Dismissals = %q, want cookie", cfg.Dismissals)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
	if cfg.Runtime.MozmailDomain != "mozmail.com" {
		t.Fatalf("MozmailDomain = %q, want mozmail.com", cfg.Runtime.MozmailDomain)
	}
	if cfg.Runtime.MaxOnboardingAvailable != 3 {
		t.Fatalf("MaxOnboardingAvailable = %d, want 3", cfg.Runtime.MaxOnboardingAvailable)
	}
	if err := cfg.Runtime.Validate(); err != nil {
		t.Fatalf("default runtime config invalid: %v", err)
	}
}

func TestParseConfigEnvironmentAndFlags(t *testing.T) {
	t.Setenv("RELAY_WEB_HTTP_ADDR", "0.0.0.0:9000")
	t.Setenv("RELAY_WEB_MOZMAIL_DOMAIN", "relay.test")
	t.Setenv("RELAY_WEB_DISMISSALS", "redis")
	t.Setenv("RELAY_WEB_CACHE_TTL", "90s")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:7000", "-backend", "restapi"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:7000" {
		t.Fatalf("HTTPAddr = %q, flag should win over env", cfg.HTTPAddr)
	}
	if cfg.Backend != "restapi" {
		t.Fatalf("Backend = %q, want restapi", cfg.Backend)
	}
	if cfg.Dismissals != "redis" {
		t.Fatalf("Dismissals = %q, want redis", cfg.Dismissals)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Fatalf("CacheTTL = %v, want 90s", cfg.CacheTTL)
	}
	if cfg.Runtime.MozmailDomain != "relay.test" {
		t.Fatalf("MozmailDomain = %q, want relay.test", cfg.Runtime.MozmailDomain)
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	if _, err := ParseConfig(fs, []string{"-game-addr", "x"}); err == nil {
		t.Fatal("ParseConfig() error = nil, want unknown flag error")
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
