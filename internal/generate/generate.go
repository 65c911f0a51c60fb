// Package generate produces a complete set of WireGuard configs for a
// server and its clients.
//
// A run has two phases:
//  1. Build derives or generates every key and renders all files in memory
//  2. Write stores the rendered files in the output directory
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/kuuji/wgconfig/internal/config"
	"github.com/kuuji/wgconfig/internal/netutil"
	"github.com/kuuji/wgconfig/internal/qr"
	"github.com/kuuji/wgconfig/internal/wgconf"
)

// ErrTooManyClients is returned when the subnet has fewer free host
// addresses than the requested client count.
var ErrTooManyClients = errors.New("too many clients for subnet")

// File names inside the output directory.
const (
	ServerConfFile = "server.conf"
	ServerUAPIFile = "server.uapi"
)

// Client is one rendered client.
type Client struct {
	// Name is the file stem, e.g. "client001".
	Name    string
	Address netip.Addr
	Keys    config.KeyData
	Config  wgconf.File
}

// Bundle holds every key and rendered config of a run.
type Bundle struct {
	ServerKeys config.KeyData
	Server     wgconf.File
	Clients    []Client
}

// Generator builds and writes config bundles.
type Generator struct {
	cfg *config.Config
	log *slog.Logger
}

// New creates a Generator for cfg.
func New(cfg *config.Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		cfg: cfg,
		log: logger.With("component", "generate"),
	}
}

// Build validates the config, produces all keys and renders the server and
// client configs. The server key is taken from the config when pinned.
func (g *Generator) Build(ctx context.Context) (*Bundle, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	subnet, err := g.cfg.SubnetPrefix()
	if err != nil {
		return nil, err
	}
	count := g.cfg.Clients.Count
	if capacity := netutil.Capacity(subnet); count > capacity {
		return nil, fmt.Errorf("%w: %d requested, %s has room for %d", ErrTooManyClients, count, subnet, capacity)
	}

	serverKeys, err := g.serverKeys()
	if err != nil {
		return nil, err
	}

	g.log.Debug("generating client keys", "count", count)
	clientKeys, err := generateKeys(ctx, count)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		ServerKeys: serverKeys,
		Clients:    make([]Client, count),
	}

	serverAddr, err := netutil.HostAddr(subnet, netutil.ServerHost)
	if err != nil {
		return nil, err
	}

	for i, keys := range clientKeys {
		addr, err := netutil.HostAddr(subnet, netutil.ServerHost+1+i)
		if err != nil {
			return nil, err
		}
		bundle.Clients[i] = Client{
			Name:    fmt.Sprintf("%s%03d", g.cfg.Clients.NamePrefix, i+1),
			Address: addr,
			Keys:    keys,
			Config:  g.clientFile(keys, serverKeys.PublicKey, addr, subnet),
		}
	}
	bundle.Server = g.serverFile(serverKeys.PrivateKey, serverAddr, subnet, bundle.Clients)

	g.log.Info("configs built",
		"clients", count,
		"subnet", subnet,
		"server_public_key", serverKeys.PublicKey,
	)
	return bundle, nil
}

// Write stores b in the configured output directory and returns the paths
// it wrote, in write order. Files are created with mode 0600.
func (g *Generator) Write(b *Bundle) ([]string, error) {
	dir := g.cfg.Output.Dir
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	var written []string
	write := func(name, content string) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	for _, c := range b.Clients {
		content := c.Config.String()
		if err := write(c.Name+".conf", content); err != nil {
			return written, err
		}
		if g.cfg.Output.QRCode {
			path := filepath.Join(dir, c.Name+".png")
			if err := qr.WritePNG(content, path, g.cfg.Output.QRSize); err != nil {
				return written, fmt.Errorf("client %s: %w", c.Name, err)
			}
			written = append(written, path)
		}
	}

	if err := write(ServerConfFile, b.Server.String()); err != nil {
		return written, err
	}
	if g.cfg.Output.UAPI {
		if err := write(ServerUAPIFile, wgconf.BuildUAPIConfig(b.Server)); err != nil {
			return written, err
		}
	}

	g.log.Debug("configs written", "dir", dir, "files", len(written))
	return written, nil
}

// serverKeys returns the pinned server key pair or a fresh one. The server
// has no preshared key of its own; those belong to each client.
func (g *Generator) serverKeys() (config.KeyData, error) {
	if !g.cfg.Server.PrivateKey.IsZero() {
		pub, err := g.cfg.PublicKey()
		if err != nil {
			return config.KeyData{}, err
		}
		g.log.Debug("using pinned server key")
		return config.KeyData{PrivateKey: g.cfg.Server.PrivateKey, PublicKey: pub}, nil
	}

	priv, err := config.GeneratePrivateKey()
	if err != nil {
		return config.KeyData{}, fmt.Errorf("generating server key: %w", err)
	}
	return config.KeyData{PrivateKey: priv, PublicKey: config.PublicKey(priv)}, nil
}

// generateKeys creates n key triples in parallel. Each goroutine writes
// only its own slot of the result.
func generateKeys(ctx context.Context, n int) ([]config.KeyData, error) {
	keys := make([]config.KeyData, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			kd, err := config.GenerateKeyData()
			if err != nil {
				return fmt.Errorf("generating keys for client %d: %w", i+1, err)
			}
			keys[i] = kd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (g *Generator) clientFile(keys config.KeyData, serverPub config.Key, addr netip.Addr, subnet netip.Prefix) wgconf.File {
	allowed := g.cfg.Network.AllowedIPs
	if len(allowed) == 0 {
		allowed = []string{subnet.String()}
	}
	return wgconf.File{
		Interface: wgconf.Interface{
			PrivateKey: keys.PrivateKey,
			Address:    []string{netip.PrefixFrom(addr, subnet.Bits()).String()},
			DNS:        g.cfg.Network.DNS,
		},
		Peers: []wgconf.Peer{{
			PublicKey:           serverPub,
			PresharedKey:        keys.PresharedKey,
			Endpoint:            net.JoinHostPort(g.cfg.Server.Endpoint, strconv.Itoa(g.cfg.Server.ListenPort)),
			PersistentKeepalive: g.cfg.Network.PersistentKeepalive,
			AllowedIPs:          allowed,
		}},
	}
}

func (g *Generator) serverFile(priv config.Key, addr netip.Addr, subnet netip.Prefix, clients []Client) wgconf.File {
	postUp, postDown := g.cfg.Server.PostUp, g.cfg.Server.PostDown
	if len(postUp) == 0 {
		postUp = wgconf.DefaultPostUp(g.cfg.Server.Interface)
	}
	if len(postDown) == 0 {
		postDown = wgconf.DefaultPostDown(g.cfg.Server.Interface)
	}

	f := wgconf.File{
		Interface: wgconf.Interface{
			PrivateKey: priv,
			Address:    []string{netip.PrefixFrom(addr, subnet.Bits()).String()},
			ListenPort: g.cfg.Server.ListenPort,
			PostUp:     postUp,
			PostDown:   postDown,
		},
		Peers: make([]wgconf.Peer, len(clients)),
	}
	for i, c := range clients {
		f.Peers[i] = wgconf.Peer{
			PublicKey:    c.Keys.PublicKey,
			PresharedKey: c.Keys.PresharedKey,
			AllowedIPs:   []string{netip.PrefixFrom(c.Address, 32).String()},
		}
	}
	return f
}
