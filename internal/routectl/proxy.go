package routectl

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// ServiceManager is the narrow surface the pipeline needs from the
// front-end proxy's process manager. Injected so pipeline logic is testable
// without a real nginx.
type ServiceManager interface {
	Stop(ctx context.Context) error
	Start(ctx context.Context) error
	Reload(ctx context.Context) error
	EnableOnBoot(ctx context.Context) error
	TestConfig(ctx context.Context) (string, error)
	IsActive(ctx context.Context) bool
}

// SystemdNginx drives nginx through systemctl, plus `nginx -t` for the
// configuration syntax test.
type SystemdNginx struct {
	systemctl string
	nginx     string
	log       *log.Logger
}

func NewSystemdNginx(systemctl, nginx string, logger *log.Logger) *SystemdNginx {
	return &SystemdNginx{systemctl: systemctl, nginx: nginx, log: logger}
}

func (s *SystemdNginx) Stop(ctx context.Context) error {
	s.log.Info("stopping nginx")
	return runCmdStream(ctx, s.systemctl, "stop", "nginx")
}

func (s *SystemdNginx) Start(ctx context.Context) error {
	s.log.Info("starting nginx")
	return runCmdStream(ctx, s.systemctl, "start", "nginx")
}

func (s *SystemdNginx) Reload(ctx context.Context) error {
	return runCmdStream(ctx, s.systemctl, "reload", "nginx")
}

func (s *SystemdNginx) EnableOnBoot(ctx context.Context) error {
	return runCmdStream(ctx, s.systemctl, "enable", "nginx")
}

func (s *SystemdNginx) TestConfig(ctx context.Context) (string, error) {
	out, err := runCmdCapture(ctx, s.nginx, "-t")
	return strings.TrimSpace(out), err
}

func (s *SystemdNginx) IsActive(ctx context.Context) bool {
	out, err := runCmdCapture(ctx, s.systemctl, "is-active", "nginx")
	return err == nil && strings.TrimSpace(out) == "active"
}

// VerifyPorts reports whether the well-known ports have a listener. Purely
// advisory: a false entry never aborts the pipeline.
func VerifyPorts(ctx context.Context) map[int]bool {
	result := map[int]bool{80: false, 443: false}
	out, err := runCmdCapture(ctx, "ss", "-ltn")
	if err != nil {
		return result
	}
	for port := range result {
		needle := ":" + strconv.Itoa(port) + " "
		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, needle) {
				result[port] = true
				break
			}
		}
	}
	return result
}
