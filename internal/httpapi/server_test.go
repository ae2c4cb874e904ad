package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/hostmon/internal/domain"
	"github.com/hamed0406/hostmon/internal/repo/memory"
	"github.com/hamed0406/hostmon/internal/tracker"
)

var (
	host   = domain.Target{Kind: domain.KindHost, Name: "web-server", Address: "10.0.0.5"}
	http80 = domain.Target{Kind: domain.KindService, Name: "web-server", Address: "10.0.0.5", Service: "http", Port: 80}
)

// ---- test helpers ----

func setup(t *testing.T) (*httptest.Server, *tracker.Tracker, *memory.Store) {
	t.Helper()
	trk := tracker.New(tracker.Options{FailedThreshold: 1})
	trk.Register([]domain.Target{host, http80})
	store := memory.New(10)

	srv := NewServer(zap.NewNop(), trk, store)
	// very high rate limits to avoid flakiness in tests
	ts := httptest.NewServer(srv.Router(10_000, 10_000))
	t.Cleanup(ts.Close)
	return ts, trk, store
}

func get(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if into != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	ts, _, _ := setup(t)
	if code := get(t, ts.URL+"/healthz", nil); code != http.StatusOK {
		t.Fatalf("want 200 got %d", code)
	}
}

func TestListTargets_UnknownUntilChecked(t *testing.T) {
	ts, trk, _ := setup(t)
	trk.Apply(domain.CheckResult{Target: host, Succeeded: false, ObservedAt: time.Now()})

	var got []tracker.Summary
	if code := get(t, ts.URL+"/api/targets", &got); code != http.StatusOK {
		t.Fatalf("want 200 got %d", code)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 targets got %d", len(got))
	}
	if got[0].Display != domain.StatusOffline || got[1].Display != domain.StatusUnknown {
		t.Fatalf("unexpected display status: %s, %s", got[0].Display, got[1].Display)
	}
}

func TestGetTarget_ServiceKeyWithSlash(t *testing.T) {
	ts, _, _ := setup(t)

	var got tracker.Summary
	if code := get(t, ts.URL+"/api/targets/web-server/http", &got); code != http.StatusOK {
		t.Fatalf("want 200 got %d", code)
	}
	if got.Target != http80 {
		t.Fatalf("unexpected target: %+v", got.Target)
	}
	if code := get(t, ts.URL+"/api/targets/nope", nil); code != http.StatusNotFound {
		t.Fatalf("want 404 got %d", code)
	}
}

func TestListEvents_Limit(t *testing.T) {
	ts, _, store := setup(t)
	for i := 0; i < 3; i++ {
		_ = store.Append(context.Background(), domain.Event{Kind: domain.EventAlert, Target: host, Detail: string(rune('a' + i))})
	}

	var got []domain.Event
	if code := get(t, ts.URL+"/api/events?limit=2", &got); code != http.StatusOK {
		t.Fatalf("want 200 got %d", code)
	}
	if len(got) != 2 || got[0].Detail != "c" {
		t.Fatalf("want newest 2 events, got %+v", got)
	}
	if code := get(t, ts.URL+"/api/events?limit=zero", nil); code != http.StatusBadRequest {
		t.Fatalf("want 400 got %d", code)
	}
}
