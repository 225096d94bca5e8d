package routectl

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// RouteRecord is the persisted form of a provisioned route.
type RouteRecord struct {
	Domain    string    `yaml:"domain"`
	Port      int       `yaml:"port"`
	Protocol  string    `yaml:"protocol"`
	IPv6      bool      `yaml:"ipv6"`
	Upgrade   bool      `yaml:"upgrade"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

type routesFile struct {
	Routes []RouteRecord `yaml:"routes"`
}

// Registry keeps the list of routes this tool has provisioned. Informational
// only: nginx state on disk is authoritative, the registry feeds `list`.
type Registry struct {
	path string
}

func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

func (r *Registry) Load() ([]RouteRecord, error) {
	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var f routesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return f.Routes, nil
}

// Put inserts or replaces the record for the route's domain.
func (r *Registry) Put(spec RouteSpec) error {
	routes, err := r.Load()
	if err != nil {
		return err
	}
	rec := RouteRecord{
		Domain:    spec.Domain,
		Port:      spec.BackendPort,
		Protocol:  string(spec.BackendProtocol),
		IPv6:      spec.EnableIPv6,
		Upgrade:   spec.EnableUpgrade,
		UpdatedAt: time.Now().UTC(),
	}
	replaced := false
	for i := range routes {
		if routes[i].Domain == rec.Domain {
			routes[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		routes = append(routes, rec)
	}
	return r.save(routes)
}

func (r *Registry) Remove(domain string) error {
	routes, err := r.Load()
	if err != nil {
		return err
	}
	filtered := routes[:0]
	for _, rec := range routes {
		if rec.Domain != domain {
			filtered = append(filtered, rec)
		}
	}
	return r.save(filtered)
}

func (r *Registry) save(routes []RouteRecord) error {
	sort.Slice(routes, func(i, j int) bool { return routes[i].Domain < routes[j].Domain })
	out, err := yaml.Marshal(routesFile{Routes: routes})
	if err != nil {
		return err
	}
	if err := ensureDir(filepath.Dir(r.path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(r.path, out, 0o640)
}
