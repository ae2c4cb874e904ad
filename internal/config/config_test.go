package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/hostmon/internal/domain"
)

const sample = `
interval: 45
timeout: 1500ms
failed_threshold: 2
hosts:
  - name: web-server
    address: 10.0.0.5
    services:
      - {name: http, port: 80}
  - name: db
    address: ${TEST_DB_ADDR}
    ping: false
    services:
      - {name: pg, port: 5432}
`

func TestParse_DefaultsAndTargets(t *testing.T) {
	t.Setenv("TEST_DB_ADDR", "10.0.0.9")
	t.Setenv("HOSTMON_API_ADDR", ":9090")

	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Interval != 45*time.Second || cfg.Timeout != 1500*time.Millisecond {
		t.Fatalf("durations wrong: interval=%s timeout=%s", cfg.Interval, cfg.Timeout)
	}
	if cfg.FailedThreshold != 2 || cfg.RecoveryThreshold != DefaultRecoveryThreshold || cfg.Concurrency != DefaultConcurrency {
		t.Fatalf("thresholds wrong: %+v", cfg)
	}
	if cfg.APIAddr != ":9090" || cfg.LogDir != DefaultLogDir {
		t.Fatalf("env override/default wrong: addr=%q logdir=%q", cfg.APIAddr, cfg.LogDir)
	}
	if cfg.APITrustProxy {
		t.Fatalf("trust_proxy must default to false")
	}

	got := cfg.Targets()
	want := []domain.Target{
		{Kind: domain.KindHost, Name: "web-server", Address: "10.0.0.5"},
		{Kind: domain.KindService, Name: "web-server", Address: "10.0.0.5", Service: "http", Port: 80},
		{Kind: domain.KindService, Name: "db", Address: "10.0.0.9", Service: "pg", Port: 5432},
	}
	if len(got) != len(want) {
		t.Fatalf("want %d targets, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("target %d: want %+v got %+v", i, want[i], got[i])
		}
	}
}

func TestParse_TrustProxy(t *testing.T) {
	cfg, err := Parse([]byte("api: {addr: ':8080', trust_proxy: true}\nhosts:\n  - {name: a, address: 10.0.0.1}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.APITrustProxy {
		t.Fatalf("trust_proxy not applied")
	}
}

func TestParse_EmptyEntitiesIsFatal(t *testing.T) {
	_, err := Parse([]byte("interval: 10s\nhosts: []\n"))
	if err == nil {
		t.Fatalf("expected error for empty host list")
	}
	if !errors.Is(err, ErrNoEntities) || !errors.Is(err, ErrInvalid) {
		t.Fatalf("want ErrNoEntities/ErrInvalid, got %v", err)
	}
}

func TestParse_RejectsExplicitZeros(t *testing.T) {
	in := `
interval: 0s
timeout: -1s
failed_threshold: 0
hosts:
  - name: a
    address: 10.0.0.1
    services:
      - {name: x, port: 70000}
      - {name: x, port: 22}
`
	_, err := Parse([]byte(in))
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	for _, field := range []string{"interval", "timeout", "failed_threshold", "port", "duplicate service"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error %q does not mention %q", err, field)
		}
	}
}

func TestParse_BadYAML(t *testing.T) {
	if _, err := Parse([]byte("interval: [")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Parse([]byte("interval: soon\nhosts: []")); err == nil {
		t.Fatalf("expected duration error")
	}
}

func TestInitConfig_WritesLoadableDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", DefaultPath)
	if err := InitConfig(path, false); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if err := InitConfig(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite without force")
	}
	if err := InitConfig(path, true); err != nil {
		t.Fatalf("InitConfig force: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Targets()) != 3 {
		t.Fatalf("default config should have 3 targets, got %d", len(cfg.Targets()))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want ErrNotExist, got %v", err)
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "world")
	if got := ResolveEnv("hello ${TEST_VAR}"); got != "hello world" {
		t.Fatalf("Expected 'hello world', got %q", got)
	}
}
