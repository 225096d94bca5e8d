package routectl

import (
	"bytes"
	"text/template"
)

// The virtual host template is fixed text: same RouteSpec, same bytes.
// TLS settings and security headers are deliberately not configurable.
const vhostTemplate = `# managed by routectl - {{.Domain}}
server {
    listen 80;
{{- if .IPv6}}
    listen [::]:80;
{{- end}}
    server_name {{.Domain}};

    return 301 https://$host$request_uri;
}

server {
    listen 443 ssl http2;
{{- if .IPv6}}
    listen [::]:443 ssl http2;
{{- end}}
    server_name {{.Domain}};

    ssl_certificate {{.CertFile}};
    ssl_certificate_key {{.CertKeyFile}};
    ssl_session_cache shared:SSL:10m;
    ssl_session_timeout 10m;
    ssl_protocols TLSv1.2 TLSv1.3;
    ssl_ciphers ECDHE-ECDSA-AES128-GCM-SHA256:ECDHE-RSA-AES128-GCM-SHA256:ECDHE-ECDSA-AES256-GCM-SHA384:ECDHE-RSA-AES256-GCM-SHA384:ECDHE-ECDSA-CHACHA20-POLY1305:ECDHE-RSA-CHACHA20-POLY1305;
    ssl_prefer_server_ciphers on;

    add_header X-Frame-Options DENY always;
    add_header X-Content-Type-Options nosniff always;
    add_header X-XSS-Protection "1; mode=block" always;
    add_header Strict-Transport-Security "max-age=31536000; includeSubDomains; preload" always;

    gzip on;
    gzip_types text/plain text/css application/json application/javascript text/xml application/xml application/xml+rss text/javascript;

    location / {
        proxy_pass {{.BackendURL}};
        proxy_http_version 1.1;
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
{{- if .Upgrade}}
        proxy_set_header Upgrade $http_upgrade;
        proxy_set_header Connection $connection_upgrade;
        proxy_read_timeout 3600s;
        proxy_send_timeout 3600s;
        proxy_buffering off;
        proxy_cache off;
{{- else}}
        proxy_set_header Connection "keep-alive";
{{- end}}
    }
}
`

type vhostData struct {
	Domain      string
	IPv6        bool
	Upgrade     bool
	BackendURL  string
	CertFile    string
	CertKeyFile string
}

// RenderVHost produces the virtual host text for a route spec. Deterministic:
// no timestamps, no randomness, the certificate paths derive from the domain.
func RenderVHost(spec RouteSpec, paths Paths) (string, error) {
	tmpl, err := template.New("vhost").Option("missingkey=error").Parse(vhostTemplate)
	if err != nil {
		return "", err
	}
	data := vhostData{
		Domain:      spec.Domain,
		IPv6:        spec.EnableIPv6,
		Upgrade:     spec.EnableUpgrade,
		BackendURL:  spec.BackendURL(),
		CertFile:    paths.CertFile(spec.Domain),
		CertKeyFile: paths.CertKeyFile(spec.Domain),
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
