package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kuuji/wgconfig/internal/config"
)

// resolvedConfigPath returns the config file path, honoring --config.
func resolvedConfigPath() string {
	if globalConfigPath != "" {
		return globalConfigPath
	}
	p, err := config.DefaultConfigPath()
	if err != nil {
		return "config.toml"
	}
	return p
}

// loadConfigOrDefault loads the config at path. A missing file is not an
// error: the defaults are returned so every setting can come from flags.
func loadConfigOrDefault(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// outputDir returns the directory files are written to, honoring --folder.
func outputDir(cfg *config.Config) string {
	if globalFolder != "" {
		return globalFolder
	}
	if cfg != nil && cfg.Output.Dir != "" {
		return cfg.Output.Dir
	}
	return config.DefaultOutputDir
}

// applyGenerateArgs overlays the positional generate arguments
// (endpoint, port, subnet, clients) on cfg. Any prefix of them may be given.
func applyGenerateArgs(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		ep := strings.TrimSpace(args[0])
		if ep == "" {
			return errors.New("endpoint must not be empty")
		}
		cfg.Server.Endpoint = ep
	}
	if len(args) > 1 {
		port, err := parsePort(args[1])
		if err != nil {
			return err
		}
		cfg.Server.ListenPort = port
	}
	if len(args) > 2 {
		subnet, err := normalizeSubnet(args[2])
		if err != nil {
			return err
		}
		cfg.Network.Subnet = subnet
	}
	if len(args) > 3 {
		n, err := parseCount(args[3])
		if err != nil {
			return err
		}
		cfg.Clients.Count = n
	}
	return nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid client count %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("client count must be at least 1, got %d", n)
	}
	return n, nil
}

// normalizeSubnet accepts either CIDR notation or a bare network address,
// which is taken as a /24.
func normalizeSubnet(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		s += "/24"
	}
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return "", fmt.Errorf("invalid subnet: %w", err)
	}
	if !p.Addr().Is4() {
		return "", fmt.Errorf("subnet %s is not IPv4", p)
	}
	return p.Masked().String(), nil
}

// writeTextFile writes lines to name inside dir, creating dir if needed.
func writeTextFile(dir, name string, lines []string) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func validateIP(s string) error {
	if _, err := netip.ParseAddr(s); err != nil {
		return fmt.Errorf("%q is not an IP address", s)
	}
	return nil
}
