// File: internal/netutil/ipv6.go (complete file)

package netutil

import (
	"net"
	"net/netip"
)

// GlobalIPv6Addrs lists the global unicast IPv6 addresses configured on up,
// non-loopback interfaces. Link-local, ULA, IPv4-mapped and multicast addresses
// are skipped.
func GlobalIPv6Addrs() []netip.Addr {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}

	var out []netip.Addr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ip, ok := addrFromNet(a)
			if ok && IsGlobalIPv6(ip) {
				out = append(out, ip)
			}
		}
	}
	return out
}

// HasGlobalIPv6 reports whether GlobalIPv6Addrs is non-empty.
func HasGlobalIPv6() bool {
	return len(GlobalIPv6Addrs()) > 0
}

// IsGlobalIPv6 reports whether ip is a routable IPv6 unicast address.
func IsGlobalIPv6(ip netip.Addr) bool {
	if !ip.Is6() || ip.Is4In6() {
		return false
	}
	if !ip.IsGlobalUnicast() || ip.IsPrivate() {
		// IsPrivate covers fc00::/7.
		return false
	}
	return true
}

func addrFromNet(a net.Addr) (netip.Addr, bool) {
	var raw net.IP
	switch v := a.(type) {
	case *net.IPNet:
		raw = v.IP
	case *net.IPAddr:
		raw = v.IP
	default:
		return netip.Addr{}, false
	}
	ip, ok := netip.AddrFromSlice(raw)
	if !ok {
		return netip.Addr{}, false
	}
	return ip.Unmap(), ok
}
