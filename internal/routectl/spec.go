package routectl

import "fmt"

type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
)

// RouteSpec describes one domain's reverse-proxy mapping. It is a plain
// value: reconfiguring a domain builds a new spec rather than mutating an
// old one.
type RouteSpec struct {
	Domain          string
	BackendPort     int
	BackendProtocol Protocol
	EnableIPv6      bool
	EnableUpgrade   bool
}

// NewRouteSpec assembles a spec from already-validated fields. No I/O
// happens here so rendering and reconciliation can be tested against
// synthetic specs.
func NewRouteSpec(domain string, port int, protocol Protocol, ipv6, upgrade bool) RouteSpec {
	return RouteSpec{
		Domain:          domain,
		BackendPort:     port,
		BackendProtocol: protocol,
		EnableIPv6:      ipv6,
		EnableUpgrade:   upgrade,
	}
}

// BackendURL is the proxied-to address on the local host.
func (s RouteSpec) BackendURL() string {
	return fmt.Sprintf("%s://localhost:%d", s.BackendProtocol, s.BackendPort)
}
