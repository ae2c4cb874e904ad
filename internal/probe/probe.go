package probe

import (
	"context"
	"time"
)

// Result is the outcome of a single probe.
//
// Fields:
// - Latency: round trip for ICMP, connect time for TCP; zero when the probe
//   failed before a measurement was taken.
// - Detail: short human-readable reason, e.g. "tcp ok" or the dial error.
type Result struct {
	Success bool
	Latency time.Duration
	Detail  string
}

// Prober checks reachability of a host and accessibility of a TCP service.
// Implementations must fail closed: every error is a failed Result, never a
// panic or a returned error. The per-check timeout is carried by ctx.
type Prober interface {
	CheckHost(ctx context.Context, address string) Result
	CheckService(ctx context.Context, address string, port int) Result
}
