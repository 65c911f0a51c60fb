// Command wgconfig generates WireGuard server and client configurations.
// Keys are produced by a built-in Curve25519 implementation, so the wg
// tool does not need to be installed.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// Global flags shared across subcommands.
var (
	globalConfigPath string
	globalFolder     string
	globalVerbose    bool
	globalLogger     *slog.Logger
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "wgconfig",
	Short: "WireGuard configuration generator",
	Long: `wgconfig generates a WireGuard server config together with any number
of client configs and QR codes. It also converts host lists and CIDR
subnets into route tables for split tunnelling.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if globalVerbose {
			level = slog.LevelDebug
		}
		globalLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, "config", "", "path to config file (default: ~/.config/wgconfig/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&globalFolder, "folder", "f", "", "output directory (overrides [output] dir)")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(genkeyCmd)
	rootCmd.AddCommand(genpskCmd)
	rootCmd.AddCommand(pubkeyCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(cidrConvertCmd)
	rootCmd.AddCommand(qrCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wgconfig version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
