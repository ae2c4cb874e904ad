package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "30s"-style strings or a bare integer meaning seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" {
		n, err := strconv.ParseInt(value.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("could not parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// rawConfig mirrors the file; pointers tell "unset" apart from zero so that
// an explicit 0 is rejected instead of silently defaulted.
type rawConfig struct {
	Interval          *Duration `yaml:"interval"`
	Timeout           *Duration `yaml:"timeout"`
	FailedThreshold   *int      `yaml:"failed_threshold"`
	RecoveryThreshold *int      `yaml:"recovery_threshold"`
	Concurrency       *int      `yaml:"concurrency"`
	PrivilegedPing    bool      `yaml:"privileged_ping"`
	Retry             struct {
		Attempts *int      `yaml:"attempts"`
		Backoff  *Duration `yaml:"backoff"`
	} `yaml:"retry"`
	Log struct {
		Dir      string `yaml:"dir"`
		Level    string `yaml:"level"`
		CheckLog string `yaml:"check_log"`
	} `yaml:"log"`
	API struct {
		Addr       string `yaml:"addr"`
		TrustProxy bool   `yaml:"trust_proxy"`
	} `yaml:"api"`
	DatabaseURL string `yaml:"database_url"`
	Alerts      Alerts `yaml:"alerts"`
	Hosts       []Host `yaml:"hosts"`
}

func (r rawConfig) resolve() *Config {
	cfg := &Config{
		Interval:          durationOr(r.Interval, DefaultInterval),
		Timeout:           durationOr(r.Timeout, DefaultTimeout),
		FailedThreshold:   intOr(r.FailedThreshold, DefaultFailedThreshold),
		RecoveryThreshold: intOr(r.RecoveryThreshold, DefaultRecoveryThreshold),
		Concurrency:       intOr(r.Concurrency, DefaultConcurrency),
		PrivilegedPing:    r.PrivilegedPing,
		RetryAttempts:     intOr(r.Retry.Attempts, DefaultRetryAttempts),
		RetryBackoff:      durationOr(r.Retry.Backoff, DefaultRetryBackoff),
		LogDir:            stringOr(r.Log.Dir, DefaultLogDir),
		LogLevel:          stringOr(r.Log.Level, DefaultLogLevel),
		CheckLog:          ResolveEnv(r.Log.CheckLog),
		APIAddr:           ResolveEnv(r.API.Addr),
		APITrustProxy:     r.API.TrustProxy,
		DatabaseURL:       ResolveEnv(r.DatabaseURL),
		Alerts:            r.Alerts,
		Hosts:             r.Hosts,
	}
	a := &cfg.Alerts
	a.File = ResolveEnv(a.File)
	a.SlackWebhook = ResolveEnv(a.SlackWebhook)
	a.Email.SMTPAddr = ResolveEnv(a.Email.SMTPAddr)
	a.Email.Username = ResolveEnv(a.Email.Username)
	a.Email.Password = ResolveEnv(a.Email.Password)
	for i := range cfg.Hosts {
		cfg.Hosts[i].Address = ResolveEnv(cfg.Hosts[i].Address)
	}
	return cfg
}

// applyEnv lets deployment override file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("HOSTMON_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("HOSTMON_API_ADDR"); v != "" {
		cfg.APIAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.SlackWebhook = v
	}
}

// ResolveEnv replaces ${VAR} and $VAR placeholders with environment values.
func ResolveEnv(value string) string {
	return os.ExpandEnv(value)
}

func durationOr(d *Duration, def time.Duration) time.Duration {
	if d == nil {
		return def
	}
	return time.Duration(*d)
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

const defaultConfig = `# hostmon configuration
interval: 30s
timeout: 2s
failed_threshold: 3
recovery_threshold: 1
concurrency: 4

log:
  dir: logs
  level: info
  check_log: logs/status_log.csv

alerts:
  console: true
  file: logs/alerts.log

hosts:
  - name: web-server
    address: 10.0.0.5
    services:
      - name: http
        port: 80
      - name: ssh
        port: 22
`
