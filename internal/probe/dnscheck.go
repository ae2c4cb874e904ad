package probe

import (
	"context"
	"errors"
	"net"
	"strings"
)

// DNSClass summarizes why a name did or did not resolve.
type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSNoARecord   DNSClass = "NO_A_RECORD" // zone exists (has NS) but no address
	DNSServFail    DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

type resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

type DNSStatus struct {
	Name  string
	Class DNSClass
	Addrs []net.IPAddr
	Err   error // first resolver error, if any
}

var defaultResolver resolver = net.DefaultResolver

// CheckDNS classifies how a name resolves. It shares the caller's deadline so
// a failing probe is not stretched past its timeout.
func CheckDNS(ctx context.Context, name string) DNSStatus {
	return checkDNS(ctx, defaultResolver, name)
}

func checkDNS(ctx context.Context, r resolver, name string) DNSStatus {
	s := DNSStatus{Name: strings.TrimSuffix(strings.TrimSpace(name), ".")}
	if !validName(s.Name) {
		s.Class = DNSInvalidName
		return s
	}
	if ip := net.ParseIP(s.Name); ip != nil {
		s.Addrs = []net.IPAddr{{IP: ip}}
		s.Class = DNSResolves
		return s
	}

	addrs, err := r.LookupIPAddr(ctx, s.Name)
	if err == nil && len(addrs) > 0 {
		s.Addrs = addrs
		s.Class = DNSResolves
		return s
	}
	s.Err = err

	var de *net.DNSError
	notFound := err == nil || (errors.As(err, &de) && de.IsNotFound)
	if !notFound {
		s.Class = DNSServFail
		return s
	}

	// the name has no address; NS records tell a missing record from a
	// missing domain
	if ns, nsErr := r.LookupNS(ctx, s.Name); nsErr == nil && len(ns) > 0 {
		s.Class = DNSNoARecord
		return s
	}
	s.Class = DNSNXDomain
	return s
}

func validName(name string) bool {
	if name == "" || len(name) > 253 {
		return false
	}
	return !strings.ContainsAny(name, " /:\\") || net.ParseIP(name) != nil
}
