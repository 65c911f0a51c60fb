package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kuuji/wgconfig/internal/netutil"
)

var cidrConvertCmd = &cobra.Command{
	Use:   "cidr-convert <name>",
	Short: "Convert CIDR subnets from stdin into route commands",
	Long: `Read IPv4 subnets in CIDR notation from stdin (one per line) and
write <name>.txt to the output directory with one "route add"
command per subnet.

Example:
  echo 149.154.160.0/20 | wgconfig cidr-convert telegram
  # route add 149.154.160.0 mask 255.255.240.0 0.0.0.0`,
	Args: cobra.ExactArgs(1),
	RunE: runCIDRConvert,
}

func runCIDRConvert(cmd *cobra.Command, args []string) error {
	lines, err := netutil.ReadLines(cmd.InOrStdin())
	if err != nil {
		return err
	}

	routes, err := netutil.ConvertCIDR(lines)
	if err != nil {
		return err
	}

	cfg, err := loadConfigOrDefault(resolvedConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	path, err := writeTextFile(outputDir(cfg), args[0]+".txt", routes)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "  %s %s (%d routes)\n", styleOK.Render("✓"), path, len(routes))
	return nil
}
