package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

const (
	// used when the caller's ctx carries no deadline
	defaultTimeout = 5 * time.Second
	dnsTimeout     = time.Second
)

// NetProber pings hosts over ICMP and opens TCP connections to services.
type NetProber struct {
	// Privileged selects raw ICMP sockets; the default is unprivileged UDP
	// ping, which needs net.ipv4.ping_group_range on Linux.
	Privileged bool
	Dialer     *net.Dialer

	ping func(ctx context.Context, address string, privileged bool) (time.Duration, error)
}

func NewNetProber(privileged bool) *NetProber {
	return &NetProber{
		Privileged: privileged,
		Dialer:     &net.Dialer{},
		ping:       pingOnce,
	}
}

func (p *NetProber) CheckHost(ctx context.Context, address string) (res Result) {
	defer recoverInto(&res)

	ping := p.ping
	if ping == nil {
		ping = pingOnce
	}
	rtt, err := ping(ctx, address, p.Privileged)
	if err != nil {
		return Result{Success: false, Detail: describe(ctx, address, "ping failed", err)}
	}
	return Result{Success: true, Latency: rtt, Detail: "ping ok"}
}

func (p *NetProber) CheckService(ctx context.Context, address string, port int) (res Result) {
	defer recoverInto(&res)

	if port <= 0 || port > 65535 {
		return Result{Success: false, Detail: fmt.Sprintf("invalid port %d", port)}
	}
	d := p.Dialer
	if d == nil {
		d = &net.Dialer{}
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	latency := time.Since(start)
	if err != nil {
		return Result{Success: false, Detail: describe(ctx, address, "connection failed", err)}
	}
	_ = conn.Close()
	return Result{Success: true, Latency: latency, Detail: "tcp ok"}
}

func pingOnce(ctx context.Context, address string, privileged bool) (time.Duration, error) {
	addr, err := resolveIP(ctx, defaultResolver, address)
	if err != nil {
		return 0, err
	}

	pinger := probing.New(address)
	pinger.SetIPAddr(addr)
	pinger.Count = 1
	pinger.SetPrivileged(privileged)
	pinger.Timeout = defaultTimeout
	if dl, ok := ctx.Deadline(); ok {
		pinger.Timeout = time.Until(dl)
		if pinger.Timeout <= 0 {
			return 0, context.DeadlineExceeded
		}
	}

	if err := pinger.RunWithContext(ctx); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return 0, errors.New("no echo reply")
	}
	return stats.AvgRtt, nil
}

// resolveIP picks the first address for host within ctx's deadline.
func resolveIP(ctx context.Context, r resolver, host string) (*net.IPAddr, error) {
	if ip := net.ParseIP(host); ip != nil {
		return &net.IPAddr{IP: ip}, nil
	}
	addrs, err := r.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}
	return &addrs[0], nil
}

// describe adds the DNS classification when the failure came from name
// resolution, e.g. "connection failed: ... dns=NXDOMAIN". The lookup gets its
// own short deadline since the probe's ctx has usually expired by now.
func describe(ctx context.Context, address, what string, err error) string {
	msg := fmt.Sprintf("%s: %v", what, err)
	var de *net.DNSError
	if errors.As(err, &de) {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dnsTimeout)
		defer cancel()
		msg += " dns=" + string(CheckDNS(dctx, address).Class)
	}
	return msg
}

func recoverInto(res *Result) {
	if r := recover(); r != nil {
		*res = Result{Success: false, Detail: fmt.Sprintf("probe panic: %v", r)}
	}
}
