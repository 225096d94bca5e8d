package routectl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		SitesAvailable: dir + "/sites-available",
		SitesEnabled:   dir + "/sites-enabled",
		MainConfig:     dir + "/nginx.conf",
		CertsRoot:      "/etc/letsencrypt/live",
		RegistryFile:   dir + "/routes.yml",
		NginxBin:       "nginx",
		CertbotBin:     "certbot",
		SystemctlBin:   "systemctl",
	}
}

func TestRenderVHostDeterministic(t *testing.T) {
	paths := testPaths(t)
	spec := NewRouteSpec("example.com", 8080, ProtocolHTTP, true, true)

	first, err := RenderVHost(spec, paths)
	require.NoError(t, err)
	second, err := RenderVHost(spec, paths)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderVHostIPv6TogglesOnlyListenLines(t *testing.T) {
	paths := testPaths(t)
	with, err := RenderVHost(NewRouteSpec("example.com", 8080, ProtocolHTTP, true, false), paths)
	require.NoError(t, err)
	without, err := RenderVHost(NewRouteSpec("example.com", 8080, ProtocolHTTP, false, false), paths)
	require.NoError(t, err)

	var extra []string
	withoutLines := strings.Split(without, "\n")
	i := 0
	for _, line := range strings.Split(with, "\n") {
		if i < len(withoutLines) && line == withoutLines[i] {
			i++
			continue
		}
		extra = append(extra, strings.TrimSpace(line))
	}
	assert.Equal(t, i, len(withoutLines), "ipv6 output should contain every non-ipv6 line in order")
	assert.Equal(t, []string{"listen [::]:80;", "listen [::]:443 ssl http2;"}, extra)
}

func TestRenderVHostUpgradeToggle(t *testing.T) {
	paths := testPaths(t)

	on, err := RenderVHost(NewRouteSpec("example.com", 9000, ProtocolHTTP, false, true), paths)
	require.NoError(t, err)
	assert.Contains(t, on, "proxy_set_header Connection $connection_upgrade;")
	assert.Contains(t, on, "proxy_read_timeout 3600s;")
	assert.Contains(t, on, "proxy_send_timeout 3600s;")
	assert.Contains(t, on, "proxy_buffering off;")
	assert.Contains(t, on, "proxy_cache off;")
	assert.NotContains(t, on, `"keep-alive"`)

	off, err := RenderVHost(NewRouteSpec("example.com", 9000, ProtocolHTTP, false, false), paths)
	require.NoError(t, err)
	assert.Contains(t, off, `proxy_set_header Connection "keep-alive";`)
	assert.NotContains(t, off, "$connection_upgrade")
	assert.NotContains(t, off, "proxy_read_timeout 3600s;")
	assert.NotContains(t, off, "proxy_buffering off;")
	assert.NotContains(t, off, "proxy_cache off;")
}

func TestRenderVHostFixedSections(t *testing.T) {
	paths := testPaths(t)
	out, err := RenderVHost(NewRouteSpec("example.com", 3000, ProtocolHTTPS, false, false), paths)
	require.NoError(t, err)

	assert.Contains(t, out, "return 301 https://$host$request_uri;")
	assert.Contains(t, out, "ssl_certificate /etc/letsencrypt/live/example.com/fullchain.pem;")
	assert.Contains(t, out, "ssl_certificate_key /etc/letsencrypt/live/example.com/privkey.pem;")
	assert.Contains(t, out, "ssl_protocols TLSv1.2 TLSv1.3;")
	assert.Contains(t, out, "ssl_prefer_server_ciphers on;")
	assert.Contains(t, out, "ssl_session_cache shared:SSL:10m;")
	assert.Contains(t, out, "add_header X-Frame-Options DENY always;")
	assert.Contains(t, out, "add_header X-Content-Type-Options nosniff always;")
	assert.Contains(t, out, `add_header X-XSS-Protection "1; mode=block" always;`)
	assert.Contains(t, out, `add_header Strict-Transport-Security "max-age=31536000; includeSubDomains; preload" always;`)
	assert.Contains(t, out, "gzip on;")
	assert.Contains(t, out, "application/json")
	assert.Contains(t, out, "proxy_pass https://localhost:3000;")
	assert.Contains(t, out, "proxy_set_header X-Real-IP $remote_addr;")
	assert.Contains(t, out, "proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;")
	assert.Contains(t, out, "proxy_set_header X-Forwarded-Proto $scheme;")
	assert.Contains(t, out, "proxy_set_header Host $host;")
}

func TestRenderVHostScenario(t *testing.T) {
	// domain=api.example.com, port=8080, http, no ipv6, upgrade on
	paths := testPaths(t)
	out, err := RenderVHost(NewRouteSpec("api.example.com", 8080, ProtocolHTTP, false, true), paths)
	require.NoError(t, err)

	assert.Contains(t, out, "proxy_pass http://localhost:8080;")
	assert.Contains(t, out, "Connection $connection_upgrade;")
	assert.Contains(t, out, "proxy_read_timeout 3600s;")
	assert.NotContains(t, out, "listen [::]:443")
}
