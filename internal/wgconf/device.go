package wgconf

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"golang.zx2c4.com/wireguard/conn"
	"golang.zx2c4.com/wireguard/device"
	"golang.zx2c4.com/wireguard/tun/tuntest"
)

// Verify loads f into a wireguard-go device backed by an in-memory TUN and
// checks that the device reports every peer back. The listen port is
// replaced with an ephemeral one so a running server is never disturbed.
func Verify(f File, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	// Adapt slog to wireguard-go's Logger format.
	wgLogger := &device.Logger{
		Verbosef: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...), "component", "wireguard")
		},
		Errorf: func(format string, args ...any) {
			logger.Error(fmt.Sprintf(format, args...), "component", "wireguard")
		},
	}

	tunDev := tuntest.NewChannelTUN()
	wgDev := device.NewDevice(tunDev.TUN(), conn.NewDefaultBind(), wgLogger)
	defer wgDev.Close()

	f.Interface.ListenPort = 0
	if err := wgDev.IpcSet(BuildUAPIConfig(f)); err != nil {
		return fmt.Errorf("configuring WireGuard device: %w", err)
	}

	state, err := wgDev.IpcGet()
	if err != nil {
		return fmt.Errorf("reading WireGuard device state: %w", err)
	}

	peers := make(map[string]bool)
	sc := bufio.NewScanner(strings.NewReader(state))
	for sc.Scan() {
		if key, ok := strings.CutPrefix(sc.Text(), "public_key="); ok {
			peers[key] = true
		}
	}
	for i, p := range f.Peers {
		if !peers[hexKey(p.PublicKey)] {
			return fmt.Errorf("peer %d (%s) missing from device state", i+1, p.PublicKey)
		}
	}

	logger.Debug("config verified", "peers", len(peers))
	return nil
}
