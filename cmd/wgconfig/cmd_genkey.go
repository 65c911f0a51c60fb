package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuuji/wgconfig/internal/config"
)

var genkeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Generate a new WireGuard private key",
	Long: `Generate a new Curve25519 private key suitable for WireGuard.
The private key is printed to stdout as base64. The corresponding
public key is printed to stderr.

Example:
  wgconfig genkey                    # print private key
  wgconfig genkey 2>/dev/null        # private key only (pipe-friendly)
  wgconfig genkey | wgconfig pubkey  # same as wg genkey | wg pubkey`,
	Args: cobra.NoArgs,
	RunE: runGenkey,
}

var genpskCmd = &cobra.Command{
	Use:   "genpsk",
	Short: "Generate a new preshared key",
	Long: `Generate 32 random bytes for use as a WireGuard PresharedKey and
print them to stdout as base64.`,
	Args: cobra.NoArgs,
	RunE: runGenpsk,
}

func runGenkey(cmd *cobra.Command, args []string) error {
	privKey, err := config.GeneratePrivateKey()
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	pubKey := config.PublicKey(privKey)

	// Private key to stdout (pipe-friendly).
	fmt.Fprintln(cmd.OutOrStdout(), privKey.String())

	// Public key to stderr (informational).
	fmt.Fprintf(cmd.ErrOrStderr(), "public key: %s\n", pubKey.String())

	return nil
}

func runGenpsk(cmd *cobra.Command, args []string) error {
	psk, err := config.GenerateSymmetricKey()
	if err != nil {
		return fmt.Errorf("generating preshared key: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), psk.String())
	return nil
}
