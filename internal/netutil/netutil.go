// Package netutil provides the IPv4 addressing helpers used to lay out a
// WireGuard tunnel network and to build Windows-style route commands.
package netutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"strings"
)

// ServerHost is the host number of the server inside the tunnel subnet.
// Clients are numbered from ServerHost+1.
const ServerHost = 1

// HostAddr returns the n-th address of an IPv4 prefix, counting the network
// address as 0. The network and broadcast addresses are rejected.
func HostAddr(prefix netip.Prefix, n int) (netip.Addr, error) {
	if !prefix.Addr().Is4() {
		return netip.Addr{}, fmt.Errorf("prefix %s is not IPv4", prefix)
	}
	prefix = prefix.Masked()
	size := uint64(1) << (32 - prefix.Bits())
	if n < 1 || uint64(n) >= size-1 {
		return netip.Addr{}, fmt.Errorf("host %d is outside the usable range of %s", n, prefix)
	}

	base := prefix.Addr().As4()
	v := uint32(base[0])<<24 | uint32(base[1])<<16 | uint32(base[2])<<8 | uint32(base[3])
	v += uint32(n)
	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}), nil
}

// Capacity returns how many clients fit in the prefix next to the server:
// every host address except the network, broadcast and server addresses.
func Capacity(prefix netip.Prefix) int {
	if !prefix.Addr().Is4() || prefix.Bits() > 30 {
		return 0
	}
	return 1<<(32-prefix.Bits()) - 3
}

// SubnetMask returns the dotted-decimal mask for a prefix length.
func SubnetMask(bits int) (string, error) {
	if bits < 0 || bits > 32 {
		return "", fmt.Errorf("prefix length %d out of range [0, 32]", bits)
	}
	m := ^uint32(0)
	if bits < 32 {
		m = ^(m >> bits)
	}
	return fmt.Sprintf("%d.%d.%d.%d", byte(m>>24), byte(m>>16), byte(m>>8), byte(m)), nil
}

// RouteCommand returns a Windows `route add` command sending addr/mask over
// the default gateway.
func RouteCommand(addr, mask string) string {
	return fmt.Sprintf("route add %s mask %s 0.0.0.0", addr, mask)
}

// ConvertCIDR turns CIDR subnets into route commands, one per subnet.
// Blank lines are skipped.
func ConvertCIDR(subnets []string) ([]string, error) {
	out := make([]string, 0, len(subnets))
	for i, s := range subnets {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if !p.Addr().Is4() {
			return nil, fmt.Errorf("line %d: %s is not IPv4", i+1, p)
		}
		mask, err := SubnetMask(p.Bits())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, RouteCommand(p.Addr().String(), mask))
	}
	return out, nil
}

// CIDRList joins addresses as comma-separated /32 prefixes, ready to paste
// into an AllowedIPs line.
func CIDRList(addrs []netip.Addr) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = netip.PrefixFrom(a, a.BitLen()).String()
	}
	return strings.Join(parts, ",")
}

// HostRoutes returns one host route command per address.
func HostRoutes(addrs []netip.Addr) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = RouteCommand(a.String(), "255.255.255.255")
	}
	return out
}

// ReadLines reads non-empty, trimmed lines from r.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if len(lines) == 0 {
		return nil, errors.New("no input lines")
	}
	return lines, nil
}
