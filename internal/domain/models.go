package domain

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindHost    Kind = "HOST"
	KindService Kind = "SERVICE"
)

// Target is a monitored host or host:port service. Immutable after load.
type Target struct {
	Kind    Kind   `json:"kind"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Service string `json:"service,omitempty"`
	Port    int    `json:"port,omitempty"`
}

// Key identifies the target in the state map: "name" for hosts,
// "name/service" for services.
func (t Target) Key() string {
	if t.Kind == KindService {
		return t.Name + "/" + t.Service
	}
	return t.Name
}

func (t Target) String() string {
	if t.Kind == KindService {
		return fmt.Sprintf("%s (%s:%d)", t.Key(), t.Address, t.Port)
	}
	return fmt.Sprintf("%s (%s)", t.Name, t.Address)
}

type Status string

const (
	StatusUnknown Status = "UNKNOWN"
	StatusOnline  Status = "ONLINE"
	StatusOffline Status = "OFFLINE"
)

// CheckResult is produced once per probe and consumed once by the tracker.
type CheckResult struct {
	Target     Target         `json:"target"`
	Succeeded  bool           `json:"succeeded"`
	Latency    *time.Duration `json:"latency,omitempty"`
	ObservedAt time.Time      `json:"observed_at"`
	Detail     string         `json:"detail,omitempty"`
}

// Status maps the outcome onto ONLINE/OFFLINE for log records.
func (r CheckResult) Status() Status {
	if r.Succeeded {
		return StatusOnline
	}
	return StatusOffline
}

// EntityState is the tracker's per-target record.
type EntityState struct {
	Target               Target       `json:"target"`
	Status               Status       `json:"status"`
	ConsecutiveFailures  uint         `json:"consecutive_failures"`
	ConsecutiveSuccesses uint         `json:"consecutive_successes"`
	LastAlertedStatus    *Status      `json:"last_alerted_status,omitempty"`
	LastResult           *CheckResult `json:"last_result,omitempty"`
}
