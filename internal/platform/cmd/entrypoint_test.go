package cmd

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/relayweb/internal/platform/logging"
)

type testConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:8080"`
	Mode    string `env:"CMD_TEST_MODE" envDefault:"server"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("CMD_TEST_MODE", "env-mode")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.Address, "address", cfgRef.Address, "address")
	fs.StringVar(&cfgRef.Mode, "mode", cfgRef.Mode, "mode")

	if err := ParseArgs(fs, []string{"-address", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.Address != "flag:9001" {
		t.Fatalf("address = %q, want %q", cfgRef.Address, "flag:9001")
	}
	if cfgRef.Mode != "env-mode" {
		t.Fatalf("mode = %q, want %q", cfgRef.Mode, "env-mode")
	}
}

func TestParseConfigFromArgsLoadsDotEnvBeforeFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CMD_TEST_MODE=dotenv-mode\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	os.Unsetenv("CMD_TEST_MODE")
	t.Cleanup(func() { os.Unsetenv("CMD_TEST_MODE") })
	t.Setenv("CMD_TEST_ADDRESS", "configarg:9000")

	cfgRef := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	fs.StringVar(&cfgRef.Address, "address", "", "address")
	if err := ParseConfigFromArgs(&cfgRef, fs, []string{"-address", "flag:9002"}, path); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfgRef.Address != "flag:9002" {
		t.Fatalf("address = %q, want %q", cfgRef.Address, "flag:9002")
	}
	if cfgRef.Mode != "dotenv-mode" {
		t.Fatalf("mode = %q, want %q", cfgRef.Mode, "dotenv-mode")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceWeb, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryPassesLoggerAndError(t *testing.T) {
	t.Setenv("RELAY_WEB_OTEL_ENDPOINT", "")
	want := errors.New("boom")
	err := RunWithTelemetry(context.Background(), ServiceWeb, func(ctx context.Context) error {
		if logging.FromContext(ctx) == nil {
			t.Fatal("expected context logger")
		}
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestRunWithTelemetryAndOptionsUsesShutdownTimeout(t *testing.T) {
	t.Setenv("RELAY_WEB_OTEL_ENDPOINT", "")
	ran := false
	err := RunWithTelemetryAndOptions(context.Background(), ServiceWeb, RunOptions{ShutdownTimeout: time.Second}, func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("RunWithTelemetryAndOptions() error = %v", err)
	}
	if !ran {
		t.Fatal("run function was not called")
	}
}
