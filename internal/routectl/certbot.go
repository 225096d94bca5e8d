package routectl

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
)

// CertIssuer requests a certificate for a domain. Issuance runs in
// standalone mode, so the caller must have stopped whatever listens on
// ports 80/443 before calling Issue.
type CertIssuer interface {
	Issue(ctx context.Context, domain, email string) error
}

// CertbotIssuer shells out to the certbot binary. Renewal is certbot's
// problem, not ours.
type CertbotIssuer struct {
	bin string
	log *log.Logger
}

func NewCertbotIssuer(bin string, logger *log.Logger) *CertbotIssuer {
	return &CertbotIssuer{bin: bin, log: logger}
}

func (c *CertbotIssuer) Issue(ctx context.Context, domain, email string) error {
	c.freePorts(ctx)

	args := []string{
		"certonly",
		"--standalone",
		"--non-interactive",
		"--agree-tos",
		"-d", domain,
	}
	if email != "" {
		args = append(args, "--email", email)
	} else {
		args = append(args, "--register-unsafely-without-email")
	}

	c.log.Info("requesting certificate", "domain", domain)
	out, err := runCmdCapture(ctx, c.bin, args...)
	if err != nil {
		return wrapError(KindCertificate, err, "certbot failed for %s: %s", domain, strings.TrimSpace(out))
	}
	c.log.Info("certificate issued", "domain", domain)
	return nil
}

// freePorts forcibly clears anything still bound to the validation ports.
// Best effort: certbot itself reports the bind failure if something survives.
func (c *CertbotIssuer) freePorts(ctx context.Context) {
	for _, port := range []string{"80/tcp", "443/tcp"} {
		if out, err := runCmdCapture(ctx, "fuser", "-k", port); err != nil && strings.TrimSpace(out) != "" {
			c.log.Debug("fuser", "port", port, "output", strings.TrimSpace(out))
		}
	}
}
