package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/hostmon/internal/config"
	"github.com/hamed0406/hostmon/internal/probe"
	"github.com/hamed0406/hostmon/internal/repo/memory"
	"github.com/hamed0406/hostmon/internal/tracker"
)

type downProber struct{}

func (downProber) CheckHost(context.Context, string) probe.Result {
	return probe.Result{Detail: "ping failed: timeout"}
}

func (downProber) CheckService(context.Context, string, int) probe.Result {
	return probe.Result{Success: true, Latency: 3 * time.Millisecond, Detail: "tcp ok"}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
interval: 1s
timeout: 1s
failed_threshold: 1
alerts:
  console: true
hosts:
  - name: web-server
    address: 10.0.0.5
    services:
      - {name: http, port: 80}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return cfg
}

func TestChannels_FromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Alerts.File = t.TempDir() + "/alerts.log"
	cfg.Alerts.SlackWebhook = "http://127.0.0.1:1/hook"

	var names []string
	for _, c := range channels(cfg, nil, memory.New(1)) {
		names = append(names, c.Name())
	}
	if got := strings.Join(names, ","); got != "console,file,slack,events" {
		t.Fatalf("unexpected channels %q", got)
	}
}

func TestApp_OneCycleAlertsAndRecords(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SLACK_WEBHOOK_URL", "")
	cfg := testConfig(t)
	var console bytes.Buffer

	a, err := newApp(context.Background(), cfg, zap.NewNop(), &console, downProber{})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()

	if err := a.runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if !strings.Contains(console.String(), "ALERT") {
		t.Fatalf("expected console alert, got %q", console.String())
	}
	evs, _ := a.events.List(context.Background(), 0)
	if len(evs) != 1 || evs[0].Target.Key() != "web-server" {
		t.Fatalf("expected one recorded alert for the host, got %+v", evs)
	}
	if n := failing(a.tracker.Snapshot()); n != 1 {
		t.Fatalf("want 1 failing check got %d", n)
	}

	var out bytes.Buffer
	printStatus(&out, a.tracker.Snapshot())
	for _, want := range []string{"web-server", "http", "OFFLINE", "ONLINE", "3.0 ms"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("status table missing %q:\n%s", want, out.String())
		}
	}
}

func TestFailing_IgnoresUnchecked(t *testing.T) {
	trk := tracker.New(tracker.Options{})
	trk.Register(testConfig(t).Targets())
	if n := failing(trk.Snapshot()); n != 0 {
		t.Fatalf("unchecked targets should not count as failing, got %d", n)
	}
}
