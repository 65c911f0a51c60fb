// Package wgconf renders WireGuard configuration files in the wg-quick
// format and in the wireguard-go UAPI format.
package wgconf

import (
	"fmt"
	"strings"

	"github.com/kuuji/wgconfig/internal/config"
)

// Interface is the [Interface] section of a config file.
type Interface struct {
	PrivateKey config.Key

	// Address is the interface address in CIDR notation (e.g. "10.8.0.2/24").
	Address []string

	// ListenPort is only set on the server. Zero omits the line.
	ListenPort int

	DNS []string

	// PostUp and PostDown hold shell commands joined with "; " on output.
	PostUp   []string
	PostDown []string
}

// Peer is one [Peer] section of a config file.
type Peer struct {
	PublicKey    config.Key
	PresharedKey config.Key

	// Endpoint is host:port. Empty on the server side.
	Endpoint string

	// AllowedIPs is the list of IP prefixes routed through this peer
	// (CIDR notation, e.g. "10.8.0.2/32", "0.0.0.0/0").
	AllowedIPs []string

	// PersistentKeepalive is the keepalive interval in seconds. Zero disables it.
	PersistentKeepalive int
}

// File is a complete wg-quick configuration.
type File struct {
	Interface Interface
	Peers     []Peer
}

// String renders the file in wg-quick INI format.
func (f File) String() string {
	var b strings.Builder

	b.WriteString("[Interface]\n")
	fmt.Fprintf(&b, "PrivateKey = %s\n", f.Interface.PrivateKey)
	writeList(&b, "Address", f.Interface.Address, ",")
	if f.Interface.ListenPort > 0 {
		fmt.Fprintf(&b, "ListenPort = %d\n", f.Interface.ListenPort)
	}
	writeList(&b, "DNS", f.Interface.DNS, ",")
	writeList(&b, "PostUp", f.Interface.PostUp, "; ")
	writeList(&b, "PostDown", f.Interface.PostDown, "; ")

	for _, p := range f.Peers {
		b.WriteString("\n[Peer]\n")
		fmt.Fprintf(&b, "PublicKey = %s\n", p.PublicKey)
		if !p.PresharedKey.IsZero() {
			fmt.Fprintf(&b, "PresharedKey = %s\n", p.PresharedKey)
		}
		if p.Endpoint != "" {
			fmt.Fprintf(&b, "Endpoint = %s\n", p.Endpoint)
		}
		if p.PersistentKeepalive > 0 {
			fmt.Fprintf(&b, "PersistentKeepalive = %d\n", p.PersistentKeepalive)
		}
		writeList(&b, "AllowedIPs", p.AllowedIPs, ",")
	}

	return b.String()
}

func writeList(b *strings.Builder, key string, values []string, sep string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s = %s\n", key, strings.Join(values, sep))
}

// DefaultPostUp returns the iptables rules that let clients reach the
// internet through the server's egress interface.
func DefaultPostUp(iface string) []string {
	return []string{
		"iptables -A FORWARD -i %i -j ACCEPT",
		fmt.Sprintf("iptables -t nat -A POSTROUTING -o %s -j MASQUERADE", iface),
	}
}

// DefaultPostDown removes the rules added by DefaultPostUp.
func DefaultPostDown(iface string) []string {
	return []string{
		"iptables -D FORWARD -i %i -j ACCEPT",
		fmt.Sprintf("iptables -t nat -D POSTROUTING -o %s -j MASQUERADE", iface),
	}
}
