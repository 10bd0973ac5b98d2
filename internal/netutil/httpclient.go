// File: internal/netutil/httpclient.go (complete file)

package netutil

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"strings"
	"time"
)

// Family selects which address family outgoing connections may use.
type Family string

const (
	FamilyAny  Family = "any"
	FamilyIPv4 Family = "ipv4"
	FamilyIPv6 Family = "ipv6"
)

// ParseFamily accepts "ipv4", "ipv6", "any" (and the tcp4/tcp6 spellings).
// Anything else maps to FamilyAny.
func ParseFamily(s string) Family {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ipv4", "tcp4", "4":
		return FamilyIPv4
	case "ipv6", "tcp6", "6":
		return FamilyIPv6
	default:
		return FamilyAny
	}
}

func (f Family) network(fallback string) string {
	switch f {
	case FamilyIPv4:
		return "tcp4"
	case FamilyIPv6:
		return "tcp6"
	default:
		return fallback
	}
}

// HTTPClientForFamily returns a client whose dialer is pinned to the given family.
// The client has no overall timeout: callers bound each request with its own context.
func HTTPClientForFamily(family Family) *http.Client {
	dialer := &net.Dialer{
		Timeout:   6 * time.Second,
		KeepAlive: 15 * time.Second,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, family.network(network), addr)
		},
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout: 5 * time.Second,
		DisableKeepAlives:   true,
	}

	return &http.Client{Transport: transport}
}
