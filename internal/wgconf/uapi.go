package wgconf

import (
	"encoding/hex"
	"fmt"
	"net/netip"
	"strings"

	"github.com/kuuji/wgconfig/internal/config"
)

// hexKey returns the hex-encoded string of a WireGuard key.
// The UAPI/IPC format requires hex encoding (not base64).
func hexKey(k config.Key) string {
	return hex.EncodeToString(k[:])
}

// BuildUAPIConfig generates the UAPI/IPC configuration string for wireguard-go's
// Device.IpcSet method. The format is newline-delimited key=value pairs.
//
// Device-level keys come first, then peer sections (each starting with public_key=).
// wg-quick-only settings (Address, DNS, PostUp, PostDown) have no UAPI
// equivalent and are left out. Endpoints that are not a literal ip:port
// are skipped because UAPI does not resolve hostnames.
func BuildUAPIConfig(f File) string {
	var b strings.Builder

	// Device-level configuration.
	fmt.Fprintf(&b, "private_key=%s\n", hexKey(f.Interface.PrivateKey))
	fmt.Fprintf(&b, "listen_port=%d\n", f.Interface.ListenPort)
	b.WriteString("replace_peers=true\n")

	for _, p := range f.Peers {
		writePeer(&b, p)
	}

	return b.String()
}

func writePeer(b *strings.Builder, p Peer) {
	fmt.Fprintf(b, "public_key=%s\n", hexKey(p.PublicKey))

	if !p.PresharedKey.IsZero() {
		fmt.Fprintf(b, "preshared_key=%s\n", hexKey(p.PresharedKey))
	}

	if ap, err := netip.ParseAddrPort(p.Endpoint); err == nil {
		fmt.Fprintf(b, "endpoint=%s\n", ap)
	}

	if p.PersistentKeepalive > 0 {
		fmt.Fprintf(b, "persistent_keepalive_interval=%d\n", p.PersistentKeepalive)
	}

	b.WriteString("replace_allowed_ips=true\n")

	for _, ip := range p.AllowedIPs {
		fmt.Fprintf(b, "allowed_ip=%s\n", ip)
	}
}
