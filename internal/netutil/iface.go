package netutil

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// LocalSubnet is an IPv4 network configured on a host interface.
type LocalSubnet struct {
	Prefix    netip.Prefix
	Interface string
}

// virtualPrefixes are interface name prefixes for virtual/container network
// interfaces. They are never a server's egress interface.
var virtualPrefixes = []string{
	"docker", "veth", "br-", "virbr", "lxc", "lxd",
	"cni", "flannel", "calico", "weave",
	"tun", "wg", "tailscale", "utun",
	"podman", "cali", "vxlan",
}

// LocalSubnets enumerates the host's physical interfaces and returns their
// IPv4 subnets.
//
// It filters out:
//   - Loopback, down and virtual/container interfaces
//   - Link-local addresses (169.254.0.0/16)
//   - IPv6 addresses
//   - Host routes (/32)
func LocalSubnets() ([]LocalSubnet, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("listing interfaces: %w", err)
	}

	var results []LocalSubnet
	for _, iface := range ifaces {
		if skipInterface(iface) {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		results = append(results, subnetsOf(iface.Name, addrs)...)
	}
	return results, nil
}

// subnetsOf converts interface addresses into de-duplicated IPv4 subnets.
func subnetsOf(name string, addrs []net.Addr) []LocalSubnet {
	seen := make(map[netip.Prefix]bool)
	var out []LocalSubnet
	for _, addr := range addrs {
		p, err := netip.ParsePrefix(addr.String())
		if err != nil {
			continue
		}
		if !p.Addr().Is4() || p.Addr().IsLinkLocalUnicast() || p.Bits() == 32 {
			continue
		}
		p = p.Masked()
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, LocalSubnet{Prefix: p, Interface: name})
	}
	return out
}

// EgressInterfaces returns the names of the interfaces in locals, in order
// and without duplicates.
func EgressInterfaces(locals []LocalSubnet) []string {
	var names []string
	seen := make(map[string]bool)
	for _, l := range locals {
		if !seen[l.Interface] {
			seen[l.Interface] = true
			names = append(names, l.Interface)
		}
	}
	return names
}

// Overlapping returns the local subnets that overlap the tunnel subnet.
// Clients on such a LAN cannot reach the tunnel addresses.
func Overlapping(tunnel netip.Prefix, locals []LocalSubnet) []LocalSubnet {
	var out []LocalSubnet
	for _, l := range locals {
		if l.Prefix.Overlaps(tunnel) {
			out = append(out, l)
		}
	}
	return out
}

// skipInterface returns true if the interface is loopback, down or virtual.
func skipInterface(iface net.Interface) bool {
	if iface.Flags&net.FlagLoopback != 0 {
		return true
	}
	if iface.Flags&net.FlagUp == 0 {
		return true
	}

	name := strings.ToLower(iface.Name)
	for _, prefix := range virtualPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}
