package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kuuji/wgconfig/internal/config"
)

var pubkeyCmd = &cobra.Command{
	Use:   "pubkey",
	Short: "Derive a public key from a private key on stdin",
	Long: `Read a base64 private key from stdin and print the matching
public key to stdout, like wg pubkey.

Example:
  wgconfig genkey 2>/dev/null | tee private.key | wgconfig pubkey > public.key`,
	Args: cobra.NoArgs,
	RunE: runPubkey,
}

func runPubkey(cmd *cobra.Command, args []string) error {
	in, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 1024))
	if err != nil {
		return fmt.Errorf("reading private key: %w", err)
	}

	pub, err := config.DerivePublicKey(strings.TrimSpace(string(in)))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), pub)
	return nil
}
