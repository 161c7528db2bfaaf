package http

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPResolver extracts the client address of a request. Forwarding headers are only
// honored when the direct peer falls inside one of the trusted proxy prefixes, so a
// client cannot spoof its address by setting X-Forwarded-For itself.
type IPResolver struct {
	trusted []netip.Prefix
}

// NewIPResolver parses the trusted proxy CIDR ranges. Blank entries are skipped.
func NewIPResolver(trustedProxies []string) (*IPResolver, error) {
	r := &IPResolver{}
	for _, cidr := range trustedProxies {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", cidr, err)
		}
		r.trusted = append(r.trusted, prefix.Masked())
	}
	return r, nil
}

// ClientIP returns the best-known client address for req.
// A nil resolver trusts no proxies.
func (r *IPResolver) ClientIP(req *http.Request) string {
	peer := remoteAddr(req)

	if r == nil || !r.isTrusted(peer) {
		return peer
	}

	// Proxies append to the right. Walk from the right past trusted hops; the first
	// untrusted address is the client. Anything left of it is client-supplied.
	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !r.isTrusted(addr.String()) {
				return addr.String()
			}
		}
	}

	if xri := strings.TrimSpace(req.Header.Get("X-Real-IP")); xri != "" {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.String()
		}
	}

	return peer
}

func (r *IPResolver) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range r.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteAddr(req *http.Request) string {
	if req.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		return host
	}
	return req.RemoteAddr
}
