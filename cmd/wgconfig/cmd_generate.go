package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kuuji/wgconfig/internal/config"
	"github.com/kuuji/wgconfig/internal/generate"
	"github.com/kuuji/wgconfig/internal/netutil"
	"github.com/kuuji/wgconfig/internal/wgconf"
)

var (
	generateQR     bool
	generateUAPI   bool
	generateVerify bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [endpoint [port [subnet [clients]]]]",
	Short: "Generate server and client configs",
	Long: `Generate a server config and one config per client. Settings come from
the config file (see 'wgconfig init'); positional arguments override them.

The subnet may be given in CIDR notation or as a bare network address,
which is taken as a /24. The server gets the first host address and
clients the following ones.

Example:
  wgconfig generate 203.0.113.7 51820 10.8.0.0 5
  wgconfig generate vpn.example.com 443 10.9.0.0/16 300 --qr=false`,
	Args: cobra.MaximumNArgs(4),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateQR, "qr", true, "write a PNG QR code for every client")
	generateCmd.Flags().BoolVar(&generateUAPI, "uapi", false, "also write the server config in wireguard-go UAPI format")
	generateCmd.Flags().BoolVar(&generateVerify, "verify", true, "load the server config into an in-memory WireGuard device before writing")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigOrDefault(resolvedConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyGenerateArgs(cfg, args); err != nil {
		return err
	}
	if cmd.Flags().Changed("qr") {
		cfg.Output.QRCode = generateQR
	}
	if cmd.Flags().Changed("uapi") {
		cfg.Output.UAPI = generateUAPI
	}
	cfg.Output.Dir = outputDir(cfg)

	if cfg.Server.Endpoint == "" {
		return fmt.Errorf("server endpoint is not set (pass it as the first argument or run 'wgconfig init')")
	}

	gen := generate.New(cfg, globalLogger)

	bundle, err := gen.Build(cmd.Context())
	if err != nil {
		return err
	}
	if generateVerify {
		if err := wgconf.Verify(bundle.Server, globalLogger); err != nil {
			return fmt.Errorf("server config rejected: %w", err)
		}
	}
	warnOverlap(cfg)

	paths, err := gen.Write(bundle)
	if err != nil {
		return err
	}

	w := os.Stdout
	fmt.Fprintf(w, "%s\n", styleHeader.Render("WireGuard configs generated"))
	fmt.Fprintf(w, "%s    %s\n", styleKey.Render("Endpoint:"), bundle.Clients[0].Config.Peers[0].Endpoint)
	fmt.Fprintf(w, "%s  %s\n", styleKey.Render("Public key:"), bundle.ServerKeys.PublicKey)
	fmt.Fprintf(w, "%s     %d\n", styleKey.Render("Clients:"), len(bundle.Clients))
	fmt.Fprintf(w, "%s      %s\n\n", styleKey.Render("Output:"), cfg.Output.Dir)
	for _, p := range paths {
		fmt.Fprintf(w, "  %s %s\n", styleOK.Render("✓"), p)
	}
	if cfg.Server.PrivateKey.IsZero() {
		fmt.Fprintf(w, "\n%s\n", styleDim.Render("The server key is new. Set [server] private_key to keep it across runs."))
	}

	return nil
}

// warnOverlap logs a warning when the tunnel subnet collides with a network
// on this host.
func warnOverlap(cfg *config.Config) {
	subnet, err := cfg.SubnetPrefix()
	if err != nil {
		return
	}
	locals, err := netutil.LocalSubnets()
	if err != nil {
		globalLogger.Debug("interface discovery failed", "error", err)
		return
	}
	for _, l := range netutil.Overlapping(subnet, locals) {
		globalLogger.Warn("tunnel subnet overlaps a local network",
			"subnet", subnet,
			"local", l.Prefix,
			"interface", l.Interface,
		)
	}
}
