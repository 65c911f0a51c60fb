package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kuuji/wgconfig/internal/netutil"
)

var routesCmd = &cobra.Command{
	Use:   "routes <name>",
	Short: "Resolve hosts from stdin into route lists",
	Long: `Read host names from stdin (one per line), resolve their IPv4
addresses and write two files to the output directory:

  mask_<name>.txt   comma separated /32 list, for AllowedIPs
  cidr_<name>.txt   one "route add" command per address

Example:
  wgconfig routes telegram < hosts.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runRoutes,
}

func runRoutes(cmd *cobra.Command, args []string) error {
	name := args[0]

	hosts, err := netutil.ReadLines(cmd.InOrStdin())
	if err != nil {
		return err
	}

	globalLogger.Info("resolving hosts", "count", len(hosts))
	addrs, err := netutil.ResolveHosts(cmd.Context(), netutil.DefaultResolver, hosts)
	if err != nil {
		return err
	}
	if len(addrs) == 0 {
		return fmt.Errorf("no IPv4 addresses found for %d hosts", len(hosts))
	}
	globalLogger.Debug("hosts resolved", "addresses", len(addrs))

	cfg, err := loadConfigOrDefault(resolvedConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	dir := outputDir(cfg)

	maskPath, err := writeTextFile(dir, "mask_"+name+".txt", []string{netutil.CIDRList(addrs)})
	if err != nil {
		return err
	}
	cidrPath, err := writeTextFile(dir, "cidr_"+name+".txt", netutil.HostRoutes(addrs))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "  %s %s\n", styleOK.Render("✓"), maskPath)
	fmt.Fprintf(os.Stdout, "  %s %s\n", styleOK.Render("✓"), cidrPath)
	return nil
}
