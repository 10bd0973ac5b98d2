// File: internal/resolver/status.go (complete file)

package resolver

import (
	"strings"
	"time"
)

const (
	SecurityProxy  = "Proxy Detected"
	SecurityDirect = "Direct Connection"

	ConnectionMobile    = "Mobile"
	ConnectionBroadband = "Broadband"
)

// DefaultDNSServers is reported as-is; resolvers are not discovered.
var DefaultDNSServers = []string{"8.8.8.8", "1.1.1.1"}

// NetworkStatus is derived from an IPInfo and the connectivity probe.
// ResponseTime is in milliseconds. GlobalIPv6Interface is informational and
// never feeds IPv6Support.
type NetworkStatus struct {
	ConnectionType      string   `json:"connectionType"`
	SecurityStatus      string   `json:"securityStatus"`
	IPv6Support         bool     `json:"ipv6Support"`
	DNSServers          []string `json:"dnsServers"`
	ResponseTime        int64    `json:"responseTime"`
	GlobalIPv6Interface bool     `json:"globalIPv6Interface"`
}

// DeriveStatus computes the status block. connectionHint, when set, wins over the
// mobile flag, mirroring a platform-reported effective connection type.
func DeriveStatus(info IPInfo, ipv6 bool, connectionHint string, elapsed time.Duration) NetworkStatus {
	conn := strings.TrimSpace(connectionHint)
	if conn == "" {
		conn = ConnectionBroadband
		if info.Mobile {
			conn = ConnectionMobile
		}
	}

	security := SecurityDirect
	if info.Proxy {
		security = SecurityProxy
	}

	return NetworkStatus{
		ConnectionType: conn,
		SecurityStatus: security,
		IPv6Support:    ipv6,
		DNSServers:     append([]string(nil), DefaultDNSServers...),
		ResponseTime:   elapsed.Milliseconds(),
	}
}
