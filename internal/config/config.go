package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Defaults applied to a fresh or partially filled config.
const (
	DefaultListenPort          = 51820
	DefaultInterface           = "eth0"
	DefaultSubnet              = "10.8.0.0/24"
	DefaultPersistentKeepalive = 25
	DefaultNamePrefix          = "client"
	DefaultOutputDir           = "config"

	// DefaultQRSize is negative: 5 pixels per QR module.
	DefaultQRSize = -5
)

// DefaultDNS are the resolvers written into client configs when none are
// configured.
var DefaultDNS = []string{
	"94.140.14.14",
	"94.140.15.15",
}

// Config is the top-level configuration for a wgconfig run.
// It is persisted as a TOML file at DefaultConfigPath().
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Network NetworkConfig `toml:"network"`
	Clients ClientsConfig `toml:"clients"`
	Output  OutputConfig  `toml:"output"`
}

// ServerConfig describes the WireGuard server every client connects to.
type ServerConfig struct {
	// Endpoint is the public IP address or hostname clients dial.
	Endpoint string `toml:"endpoint"`

	// ListenPort is the UDP port the server listens on.
	ListenPort int `toml:"listen_port"`

	// Interface is the server's egress interface used by the default
	// MASQUERADE rules (e.g. "eth0").
	Interface string `toml:"interface"`

	// PostUp and PostDown override the default iptables rules. Each entry
	// becomes one command of the wg-quick hook.
	PostUp   []string `toml:"post_up,omitempty"`
	PostDown []string `toml:"post_down,omitempty"`

	// PrivateKey pins the server key across runs. When zero, a new key is
	// generated on every run.
	PrivateKey Key `toml:"private_key,omitempty"`
}

// NetworkConfig describes the tunnel network.
type NetworkConfig struct {
	// Subnet is the IPv4 tunnel network in CIDR notation. The server takes
	// the first host address and clients the following ones.
	Subnet string `toml:"subnet"`

	// DNS is the list of resolvers pushed to clients.
	DNS []string `toml:"dns"`

	// AllowedIPs is routed through the tunnel on clients. Defaults to the
	// tunnel subnet; set to ["0.0.0.0/0"] for a full tunnel.
	AllowedIPs []string `toml:"allowed_ips,omitempty"`

	// PersistentKeepalive is the client keepalive interval in seconds.
	// Zero disables it.
	PersistentKeepalive int `toml:"persistent_keepalive"`
}

// ClientsConfig controls how many client configs are produced.
type ClientsConfig struct {
	Count      int    `toml:"count"`
	NamePrefix string `toml:"name_prefix"`
}

// OutputConfig controls what is written and where.
type OutputConfig struct {
	Dir string `toml:"dir"`

	// QRCode writes a PNG QR code next to every client config.
	QRCode bool `toml:"qr_code"`

	// QRSize is the PNG size in pixels; negative values are pixels per module.
	QRSize int `toml:"qr_size"`

	// UAPI additionally writes the server config in wireguard-go UAPI form.
	UAPI bool `toml:"uapi"`
}

// DefaultConfig returns a Config populated with sensible defaults.
// The server endpoint is left empty and must be filled in by the user.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenPort: DefaultListenPort,
			Interface:  DefaultInterface,
		},
		Network: NetworkConfig{
			Subnet:              DefaultSubnet,
			DNS:                 append([]string(nil), DefaultDNS...),
			PersistentKeepalive: DefaultPersistentKeepalive,
		},
		Clients: ClientsConfig{
			Count:      1,
			NamePrefix: DefaultNamePrefix,
		},
		Output: OutputConfig{
			Dir:    DefaultOutputDir,
			QRCode: true,
			QRSize: DefaultQRSize,
		},
	}
}

// DefaultConfigPath returns the default path for the wgconfig config file.
// It respects $XDG_CONFIG_HOME if set, otherwise falls back to ~/.config.
func DefaultConfigPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determining home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wgconfig", "config.toml"), nil
}

// LoadConfig reads and decodes a TOML config file from the given path.
// If the file does not exist, it returns an error wrapping fs.ErrNotExist.
// After loading, defaults are applied for any unset optional fields.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// SaveConfig encodes the config as TOML and writes it to the given path.
// Parent directories are created if they don't exist. The file is written
// with mode 0600 (owner-only read/write) since it may contain a private key.
func SaveConfig(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}

// Validate checks the fields a generation run depends on.
func (c *Config) Validate() error {
	if c.Server.Endpoint == "" {
		return errors.New("server endpoint is not set")
	}
	if c.Server.ListenPort < 1 || c.Server.ListenPort > 65535 {
		return fmt.Errorf("listen port %d out of range", c.Server.ListenPort)
	}
	if _, err := c.SubnetPrefix(); err != nil {
		return err
	}
	for _, ip := range c.Network.AllowedIPs {
		if _, err := netip.ParsePrefix(ip); err != nil {
			return fmt.Errorf("allowed IP %q: %w", ip, err)
		}
	}
	for _, d := range c.Network.DNS {
		if _, err := netip.ParseAddr(d); err != nil {
			return fmt.Errorf("DNS server %q: %w", d, err)
		}
	}
	if c.Network.PersistentKeepalive < 0 || c.Network.PersistentKeepalive > 65535 {
		return fmt.Errorf("persistent keepalive %d out of range", c.Network.PersistentKeepalive)
	}
	if c.Clients.Count < 1 {
		return fmt.Errorf("client count must be at least 1, got %d", c.Clients.Count)
	}
	return nil
}

// SubnetPrefix parses the tunnel subnet. Only IPv4 subnets are supported.
func (c *Config) SubnetPrefix() (netip.Prefix, error) {
	p, err := netip.ParsePrefix(c.Network.Subnet)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("parsing subnet %q: %w", c.Network.Subnet, err)
	}
	if !p.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("subnet %q is not IPv4", c.Network.Subnet)
	}
	return p.Masked(), nil
}

// PublicKey derives the server's public key from the pinned private key.
// Returns an error if the private key is not set.
func (c *Config) PublicKey() (Key, error) {
	if c.Server.PrivateKey.IsZero() {
		return Key{}, errors.New("server private key is not set")
	}
	return PublicKey(c.Server.PrivateKey), nil
}

// applyDefaults fills in default values for optional fields that are
// zero-valued after TOML decoding.
func applyDefaults(cfg *Config) {
	if cfg.Server.ListenPort == 0 {
		cfg.Server.ListenPort = DefaultListenPort
	}
	if cfg.Server.Interface == "" {
		cfg.Server.Interface = DefaultInterface
	}
	if cfg.Network.Subnet == "" {
		cfg.Network.Subnet = DefaultSubnet
	}
	if len(cfg.Network.DNS) == 0 {
		cfg.Network.DNS = append([]string(nil), DefaultDNS...)
	}
	if cfg.Clients.NamePrefix == "" {
		cfg.Clients.NamePrefix = DefaultNamePrefix
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if cfg.Output.QRSize == 0 {
		cfg.Output.QRSize = DefaultQRSize
	}
}
