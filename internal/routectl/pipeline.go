package routectl

import (
	"context"
	"errors"
	"os/exec"

	"github.com/charmbracelet/log"
)

// Prompter handles the operator decisions that can occur mid-pipeline.
type Prompter interface {
	// ConfirmSoftFailure asks whether to continue despite a soft validation
	// miss. Returning false aborts the pipeline.
	ConfirmSoftFailure(field, reason string) bool
}

// Inputs are the raw values as entered; the pipeline validates them before
// any side effect runs.
type Inputs struct {
	Domain   string
	Port     string
	Protocol string
	IPv6     bool
	Upgrade  bool
	Email    string
}

type StepResult struct {
	Name string
	Err  error
}

// Report records what each stage did. The certificate stage failing shows
// up here without failing the run.
type Report struct {
	Spec    RouteSpec
	Steps   []StepResult
	CertErr error
	Ports   map[int]bool
}

func (r *Report) step(name string, err error) {
	r.Steps = append(r.Steps, StepResult{Name: name, Err: err})
}

// Pipeline wires the stages together: validate, build spec, stop proxy,
// request certificate, render, reconcile, test, start, verify. Later stages
// never run after a hard failure, with one exception: the front-end proxy is
// always started again in a final step so a failed run cannot leave the host
// without a listener.
type Pipeline struct {
	Paths    Paths
	Proxy    ServiceManager
	Certs    CertIssuer
	Resolver ConflictResolver
	Prompter Prompter
	Registry *Registry
	Log      *log.Logger

	// Observer, when set, is told about each finished step. The wizard's
	// progress screen hangs off this.
	Observer func(StepResult)

	// LookPath defaults to exec.LookPath; tests swap it out.
	LookPath func(string) (string, error)
}

func (p *Pipeline) observe(report *Report, name string, err error) {
	report.step(name, err)
	if p.Observer != nil {
		p.Observer(StepResult{Name: name, Err: err})
	}
}

// Preflight verifies the external tools exist before any state mutation.
func (p *Pipeline) Preflight() error {
	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, bin := range []string{p.Paths.NginxBin, p.Paths.SystemctlBin, p.Paths.CertbotBin} {
		if _, err := lookPath(bin); err != nil {
			return wrapError(KindToolMissing, err, "required tool %q not found", bin)
		}
	}
	return nil
}

// Validate runs the tri-state input checks and asks the operator about soft
// failures. It is side-effect free.
func (p *Pipeline) Validate(in Inputs) (RouteSpec, error) {
	dres := ValidateDomain(in.Domain)
	switch dres.Verdict {
	case VerdictHardInvalid:
		return RouteSpec{}, dres.Err()
	case VerdictSoftInvalid:
		if !p.Prompter.ConfirmSoftFailure(dres.Field, dres.Reason) {
			return RouteSpec{}, newError(KindValidation, "operator declined to continue: %s", dres.Reason)
		}
		p.Log.Warn("continuing with unvalidated domain", "domain", in.Domain, "reason", dres.Reason)
	}

	port, pres := ValidatePort(in.Port)
	if pres.Verdict != VerdictValid {
		return RouteSpec{}, pres.Err()
	}

	protocol, prores := ValidateProtocol(in.Protocol)
	if prores.Verdict != VerdictValid {
		return RouteSpec{}, prores.Err()
	}

	return NewRouteSpec(in.Domain, port, protocol, in.IPv6, in.Upgrade), nil
}

// Provision runs the whole state machine for one route. The returned report
// is populated as far as the run got, including on error.
func (p *Pipeline) Provision(ctx context.Context, in Inputs) (*Report, error) {
	report := &Report{}

	if err := p.Preflight(); err != nil {
		p.observe(report, "preflight", err)
		return report, err
	}
	p.observe(report, "preflight", nil)

	spec, err := p.Validate(in)
	p.observe(report, "validate inputs", err)
	if err != nil {
		return report, err
	}
	report.Spec = spec

	wasRunning := p.Proxy.IsActive(ctx)
	stopErr := p.Proxy.Stop(ctx)
	p.observe(report, "stop nginx", stopErr)
	if stopErr != nil {
		p.Log.Warn("stop failed, continuing", "error", stopErr)
	}

	// From here on, every exit path must try to bring the proxy back up.
	started := false
	defer func() {
		if started {
			return
		}
		if err := p.Proxy.Start(ctx); err != nil {
			p.Log.Error("could not restart nginx", "error", err, "was_running", wasRunning)
		} else {
			p.Log.Info("nginx restarted after incomplete run")
		}
	}()

	if certErr := p.Certs.Issue(ctx, spec.Domain, in.Email); certErr != nil {
		// Fail-open for availability, fail-closed for the new route: the
		// pipeline keeps going, the domain just has no valid certificate yet.
		report.CertErr = certErr
		p.observe(report, "request certificate", certErr)
		p.Log.Warn("certificate request failed, continuing", "domain", spec.Domain, "error", certErr)
	} else {
		p.observe(report, "request certificate", nil)
	}

	content, err := RenderVHost(spec, p.Paths)
	p.observe(report, "render configuration", err)
	if err != nil {
		return report, err
	}

	if spec.EnableUpgrade {
		changed, err := EnsureUpgradeMap(p.Paths.MainConfig)
		p.observe(report, "ensure upgrade map", err)
		if err != nil {
			return report, err
		}
		if changed {
			p.Log.Info("inserted upgrade map", "file", p.Paths.MainConfig)
		}
	}

	reconciler := NewReconciler(p.Paths, p.Resolver, p.Log)
	if _, err := reconciler.WriteConfig(spec.Domain, content); err != nil {
		p.observe(report, "write configuration", err)
		return report, err
	}
	p.observe(report, "write configuration", nil)

	if _, err := reconciler.Enable(spec.Domain); err != nil {
		p.observe(report, "enable route", err)
		return report, err
	}
	p.observe(report, "enable route", nil)

	if out, err := p.Proxy.TestConfig(ctx); err != nil {
		testErr := wrapError(KindConfigTest, err, "configuration test failed: %s", out)
		p.observe(report, "test configuration", testErr)
		if rbErr := reconciler.RollbackLink(spec.Domain); rbErr != nil {
			p.Log.Error("rollback failed", "error", rbErr)
		}
		return report, testErr
	}
	p.observe(report, "test configuration", nil)

	startErr := p.Proxy.Start(ctx)
	p.observe(report, "start nginx", startErr)
	if startErr != nil {
		return report, startErr
	}
	started = true

	if err := p.Proxy.EnableOnBoot(ctx); err != nil {
		p.Log.Warn("could not enable nginx on boot", "error", err)
	}

	report.Ports = VerifyPorts(ctx)
	p.observe(report, "verify ports", nil)
	for port, listening := range report.Ports {
		if listening {
			p.Log.Info("port listening", "port", port)
		} else {
			p.Log.Warn("port not listening", "port", port)
		}
	}

	if p.Registry != nil {
		if err := p.Registry.Put(spec); err != nil {
			p.Log.Warn("could not record route", "error", err)
		}
	}

	return report, nil
}

// Aborted reports whether err is an operator abort rather than a failure.
func Aborted(err error) bool {
	return errors.Is(err, ErrAborted)
}
