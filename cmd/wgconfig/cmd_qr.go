package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kuuji/wgconfig/internal/qr"
)

var qrCmd = &cobra.Command{
	Use:   "qr <file.conf>",
	Short: "Display a QR code for a client config",
	Long: `Displays a client config as a QR code in the terminal so the
WireGuard mobile app can import it with "Scan from QR code".`,
	Args: cobra.ExactArgs(1),
	RunE: runQR,
}

func runQR(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	code, err := qr.Terminal(string(data))
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, code)
	fmt.Fprintf(os.Stderr, "%s %s\n", styleKey.Render("Config:"), args[0])
	fmt.Fprintln(os.Stderr, styleWarn.Render("This QR code contains a private key. Do not share it."))

	return nil
}
