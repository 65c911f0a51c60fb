package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/kuuji/wgconfig/internal/config"
	"github.com/kuuji/wgconfig/internal/netutil"
)

var (
	initDefaults bool
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file",
	Long: `Create the wgconfig config file, asking for the server endpoint,
port, tunnel subnet and number of clients. With --defaults the file is
written without prompting and the endpoint must be filled in later.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "write the default config without prompting")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfgPath := resolvedConfigPath()

	if _, err := os.Stat(cfgPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	cfg := config.DefaultConfig()
	if globalFolder != "" {
		cfg.Output.Dir = globalFolder
	}

	if !initDefaults {
		if err := runInitForm(cfg); err != nil {
			return err
		}
	}

	if err := config.SaveConfig(cfgPath, cfg); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", styleOK.Render("Config written to"), cfgPath)
	if cfg.Server.Endpoint == "" {
		fmt.Fprintln(os.Stderr, styleDim.Render("Set [server] endpoint before running 'wgconfig generate'."))
	}
	return nil
}

// initAnswers holds the raw form values.
type initAnswers struct {
	Endpoint  string
	Port      string
	Subnet    string
	Clients   string
	Interface string
	DNS       string
	QRCode    bool
}

// runInitForm asks for the main settings and stores them in cfg.
func runInitForm(cfg *config.Config) error {
	a := initAnswers{
		Endpoint:  cfg.Server.Endpoint,
		Port:      strconv.Itoa(cfg.Server.ListenPort),
		Subnet:    cfg.Network.Subnet,
		Clients:   strconv.Itoa(cfg.Clients.Count),
		Interface: cfg.Server.Interface,
		DNS:       strings.Join(cfg.Network.DNS, ","),
		QRCode:    cfg.Output.QRCode,
	}

	serverFields := []huh.Field{
		huh.NewInput().
			Title("Server endpoint").
			Description("Public IP address or hostname clients connect to").
			Value(&a.Endpoint).
			Validate(validateEndpoint),
		huh.NewInput().
			Title("Listen port").
			Value(&a.Port).
			Validate(func(s string) error {
				_, err := parsePort(s)
				return err
			}),
	}

	// Offer the host's interfaces when running on the server itself.
	locals, err := netutil.LocalSubnets()
	if err != nil {
		globalLogger.Debug("interface discovery failed", "error", err)
	}
	if names := netutil.EgressInterfaces(locals); len(names) > 0 {
		if !slices.Contains(names, a.Interface) {
			a.Interface = names[0]
		}
		serverFields = append(serverFields,
			huh.NewSelect[string]().
				Title("Egress interface").
				Description("Interface the server masquerades client traffic on").
				Options(huh.NewOptions(names...)...).
				Value(&a.Interface),
		)
	} else {
		serverFields = append(serverFields,
			huh.NewInput().
				Title("Egress interface").
				Description("Interface the server masquerades client traffic on").
				Value(&a.Interface),
		)
	}

	form := huh.NewForm(
		huh.NewGroup(serverFields...),
		huh.NewGroup(
			huh.NewInput().
				Title("Tunnel subnet").
				Description("IPv4 network in CIDR notation, e.g. 10.8.0.0/24").
				Value(&a.Subnet).
				Validate(func(s string) error {
					_, err := normalizeSubnet(s)
					return err
				}),
			huh.NewInput().
				Title("Number of clients").
				Value(&a.Clients).
				Validate(func(s string) error {
					_, err := parseCount(s)
					return err
				}),
			huh.NewInput().
				Title("Client DNS servers").
				Description("Comma separated IP addresses").
				Value(&a.DNS).
				Validate(validateDNSList),
			huh.NewConfirm().
				Title("Write QR codes for clients?").
				Value(&a.QRCode),
		),
	).WithTheme(customHuhTheme())

	if err := form.Run(); err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	return a.apply(cfg)
}

// apply copies the answers into cfg and validates the result.
func (a initAnswers) apply(cfg *config.Config) error {
	if err := applyGenerateArgs(cfg, []string{a.Endpoint, a.Port, a.Subnet, a.Clients}); err != nil {
		return err
	}
	if err := validateDNSList(a.DNS); err != nil {
		return err
	}
	if iface := strings.TrimSpace(a.Interface); iface != "" {
		cfg.Server.Interface = iface
	}
	cfg.Network.DNS = splitList(a.DNS)
	cfg.Output.QRCode = a.QRCode
	return cfg.Validate()
}

func validateEndpoint(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("endpoint is required")
	}
	if strings.ContainsAny(s, " /") {
		return fmt.Errorf("%q is not a host name or IP address", s)
	}
	return nil
}

func validateDNSList(s string) error {
	for _, d := range splitList(s) {
		if err := validateIP(d); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
