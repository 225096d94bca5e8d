package routectl

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/log"
)

func Run(args []string) error {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "add":
		return cmdAdd(cmdArgs)
	case "list":
		return cmdList(cmdArgs)
	case "remove":
		return cmdRemove(cmdArgs)
	case "doctor":
		return RunDoctor(LoadPaths())
	case "help", "--help", "-h":
		usage()
		return nil
	default:
		// bare invocation: routectl <domain> [port] [protocol]
		if strings.Contains(cmd, ".") {
			return cmdAdd(args)
		}
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func usage() {
	fmt.Println(`routectl - nginx reverse-proxy route configurator

Usage:
  routectl add [domain] [backend_port] [http|https] [--preset name] [--email addr]
  routectl <domain> [backend_port] [http|https]     # same as add
  routectl list                                      # show provisioned routes
  routectl remove <domain>                           # disable a route
  routectl doctor                                    # preflight checks
  routectl setup                                     # interactive wizard

Missing arguments are prompted for. IPv6 and websocket/SSE upgrade support
are always asked interactively.

Available presets:`)

	for _, name := range SortedPresetNames() {
		p := PresetCatalog[name]
		fmt.Printf("  - %-10s %-55s port: %d\n", p.Name, p.Description, p.Port)
	}
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "routectl",
	})
}

func cmdAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	preset := fs.String("preset", "", "service preset: "+strings.Join(SortedPresetNames(), ", "))
	email := fs.String("email", "", "email for certificate registration")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()

	paths := LoadPaths()
	if *email == "" {
		*email = paths.Email
	}

	in := Inputs{Email: *email}
	if len(rest) > 0 {
		in.Domain = rest[0]
	}
	if len(rest) > 1 {
		in.Port = rest[1]
	}
	if len(rest) > 2 {
		in.Protocol = rest[2]
	}

	var chosen Preset
	if *preset != "" {
		p, ok := PresetCatalog[*preset]
		if !ok {
			return fmt.Errorf("unknown preset: %s", *preset)
		}
		chosen = p
		if in.Port == "" {
			in.Port = strconv.Itoa(p.Port)
		}
		if in.Protocol == "" {
			in.Protocol = string(p.Protocol)
		}
	}

	if err := promptMissing(&in, chosen); err != nil {
		return err
	}

	logger := newLogger()
	pipeline := &Pipeline{
		Paths:    paths,
		Proxy:    NewSystemdNginx(paths.SystemctlBin, paths.NginxBin, logger),
		Certs:    NewCertbotIssuer(paths.CertbotBin, logger),
		Resolver: SurveyResolver{},
		Prompter: SurveyPrompter{},
		Registry: NewRegistry(paths.RegistryFile),
		Log:      logger,
	}

	report, err := pipeline.Provision(context.Background(), in)
	if Aborted(err) {
		fmt.Println("aborted, no changes made")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("route %s -> %s provisioned\n", report.Spec.Domain, report.Spec.BackendURL())
	if report.CertErr != nil {
		fmt.Printf("note: certificate request failed, HTTPS will not work until it succeeds: %v\n", report.CertErr)
	}
	for _, port := range []int{80, 443} {
		if report.Ports[port] {
			fmt.Printf("port %d: listening\n", port)
		} else {
			fmt.Printf("port %d: NOT listening\n", port)
		}
	}
	return nil
}

// promptMissing fills the gaps interactively. IPv6 and upgrade are always
// asked, regardless of what was passed on the command line.
func promptMissing(in *Inputs, preset Preset) error {
	if in.Domain == "" {
		q := &survey.Input{Message: "Domain to route:", Help: "e.g. api.example.com"}
		if err := survey.AskOne(q, &in.Domain, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if in.Port == "" {
		q := &survey.Input{Message: "Backend port:"}
		if err := survey.AskOne(q, &in.Port, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if in.Protocol == "" {
		q := &survey.Select{Message: "Backend protocol:", Options: []string{"http", "https"}, Default: "http"}
		if err := survey.AskOne(q, &in.Protocol); err != nil {
			return err
		}
	}

	ipv6 := &survey.Confirm{Message: "Add IPv6 listeners?", Default: false}
	if err := survey.AskOne(ipv6, &in.IPv6); err != nil {
		return err
	}
	upgrade := &survey.Confirm{Message: "Enable websocket/SSE support?", Default: preset.Upgrade}
	if err := survey.AskOne(upgrade, &in.Upgrade); err != nil {
		return err
	}
	return nil
}

func cmdList(args []string) error {
	paths := LoadPaths()
	routes, err := NewRegistry(paths.RegistryFile).Load()
	if err != nil {
		return err
	}
	if len(routes) == 0 {
		fmt.Println("no routes provisioned")
		return nil
	}
	fmt.Printf("%-30s %-24s %-6s %-8s %s\n", "DOMAIN", "BACKEND", "IPV6", "UPGRADE", "ENABLED")
	for _, r := range routes {
		enabled := "no"
		if _, err := os.Stat(paths.EnabledPath(r.Domain)); err == nil {
			enabled = "yes"
		}
		backend := fmt.Sprintf("%s://localhost:%d", r.Protocol, r.Port)
		fmt.Printf("%-30s %-24s %-6v %-8v %s\n", r.Domain, backend, r.IPv6, r.Upgrade, enabled)
	}
	return nil
}

func cmdRemove(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("domain is required")
	}
	domain := args[0]

	paths := LoadPaths()
	logger := newLogger()
	reconciler := NewReconciler(paths, SurveyResolver{}, logger)
	if err := reconciler.Disable(domain); err != nil {
		return err
	}
	if err := NewRegistry(paths.RegistryFile).Remove(domain); err != nil {
		logger.Warn("could not update registry", "error", err)
	}

	proxy := NewSystemdNginx(paths.SystemctlBin, paths.NginxBin, logger)
	if err := proxy.Reload(context.Background()); err != nil {
		return fmt.Errorf("route disabled but reload failed: %w", err)
	}
	fmt.Printf("route %s disabled (config kept in %s)\n", domain, paths.SitesAvailable)
	return nil
}
