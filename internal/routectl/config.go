package routectl

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultSitesAvailable = "/etc/nginx/sites-available"
	defaultSitesEnabled   = "/etc/nginx/sites-enabled"
	defaultMainConfig     = "/etc/nginx/nginx.conf"
	defaultCertsRoot      = "/etc/letsencrypt/live"
	defaultStateDir       = "/etc/routectl"
)

// Paths collects every filesystem and binary location the configurator
// touches. Defaults follow the Debian nginx layout; each value can be
// overridden via /etc/routectl/routectl.yaml or a ROUTECTL_* env var.
type Paths struct {
	SitesAvailable string
	SitesEnabled   string
	MainConfig     string
	CertsRoot      string
	RegistryFile   string
	Email          string

	NginxBin     string
	CertbotBin   string
	SystemctlBin string
}

func LoadPaths() Paths {
	v := viper.New()
	v.SetDefault("sites_available", defaultSitesAvailable)
	v.SetDefault("sites_enabled", defaultSitesEnabled)
	v.SetDefault("main_config", defaultMainConfig)
	v.SetDefault("certs_root", defaultCertsRoot)
	v.SetDefault("registry_file", filepath.Join(defaultStateDir, "routes.yml"))
	v.SetDefault("email", "")
	v.SetDefault("nginx_bin", "nginx")
	v.SetDefault("certbot_bin", "certbot")
	v.SetDefault("systemctl_bin", "systemctl")

	v.SetEnvPrefix("ROUTECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("routectl")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultStateDir)
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional; defaults and env cover the rest

	return Paths{
		SitesAvailable: v.GetString("sites_available"),
		SitesEnabled:   v.GetString("sites_enabled"),
		MainConfig:     v.GetString("main_config"),
		CertsRoot:      v.GetString("certs_root"),
		RegistryFile:   v.GetString("registry_file"),
		Email:          v.GetString("email"),
		NginxBin:       v.GetString("nginx_bin"),
		CertbotBin:     v.GetString("certbot_bin"),
		SystemctlBin:   v.GetString("systemctl_bin"),
	}
}

// AvailablePath is the per-domain virtual host file.
func (p Paths) AvailablePath(domain string) string {
	return filepath.Join(p.SitesAvailable, domain+".conf")
}

// EnabledPath is the activation link nginx actually loads.
func (p Paths) EnabledPath(domain string) string {
	return filepath.Join(p.SitesEnabled, domain+".conf")
}

func (p Paths) CertFile(domain string) string {
	return filepath.Join(p.CertsRoot, domain, "fullchain.pem")
}

func (p Paths) CertKeyFile(domain string) string {
	return filepath.Join(p.CertsRoot, domain, "privkey.pem")
}
