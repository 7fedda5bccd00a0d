package domain

import (
	"fmt"
	"net/netip"
)

// ParseIPv4 validates that host is a dotted-quad IPv4 literal.
// An empty host wraps ErrContext; anything else that is not IPv4 wraps ErrValidation.
func ParseIPv4(host string) (netip.Addr, error) {
	if host == "" {
		return netip.Addr{}, fmt.Errorf("%w: remote host is empty", ErrContext)
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %q is not an IP address", ErrValidation, host)
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q is not an IPv4 address", ErrValidation, host)
	}
	return addr, nil
}
