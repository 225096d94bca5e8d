package routectl

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProxy struct {
	stops    int
	starts   int
	reloads  int
	enables  int
	tests    int
	active   bool
	startErr error
	testErr  error
}

func (f *fakeProxy) Stop(context.Context) error  { f.stops++; return nil }
func (f *fakeProxy) Start(context.Context) error { f.starts++; return f.startErr }
func (f *fakeProxy) Reload(context.Context) error {
	f.reloads++
	return nil
}
func (f *fakeProxy) EnableOnBoot(context.Context) error { f.enables++; return nil }
func (f *fakeProxy) TestConfig(context.Context) (string, error) {
	f.tests++
	if f.testErr != nil {
		return "nginx: configuration file test failed", f.testErr
	}
	return "syntax is ok", nil
}
func (f *fakeProxy) IsActive(context.Context) bool { return f.active }

type fakeIssuer struct {
	calls int
	err   error
}

func (f *fakeIssuer) Issue(ctx context.Context, domain, email string) error {
	f.calls++
	return f.err
}

func writeMainConf(t *testing.T, paths Paths) {
	t.Helper()
	require.NoError(t, os.WriteFile(paths.MainConfig, []byte(mainConfFixture), 0o644))
}

func testPipeline(t *testing.T, paths Paths, proxy *fakeProxy, issuer *fakeIssuer) *Pipeline {
	t.Helper()
	return &Pipeline{
		Paths:    paths,
		Proxy:    proxy,
		Certs:    issuer,
		Resolver: FixedResolver{Choice: ChoiceBackup},
		Prompter: AutoPrompter{AllowSoft: true},
		Registry: NewRegistry(paths.RegistryFile),
		Log:      log.New(io.Discard),
		LookPath: func(string) (string, error) { return "/usr/bin/fake", nil },
	}
}

func validInputs() Inputs {
	return Inputs{
		Domain:   "api.example.com",
		Port:     "8080",
		Protocol: "http",
		Upgrade:  true,
		Email:    "ops@example.com",
	}
}

func TestProvisionHappyPath(t *testing.T) {
	paths := testPaths(t)
	writeMainConf(t, paths)
	proxy := &fakeProxy{active: true}
	issuer := &fakeIssuer{}
	p := testPipeline(t, paths, proxy, issuer)

	report, err := p.Provision(context.Background(), validInputs())
	require.NoError(t, err)

	assert.Equal(t, 1, proxy.stops)
	assert.Equal(t, 1, proxy.starts)
	assert.Equal(t, 1, proxy.tests)
	assert.Equal(t, 1, issuer.calls)
	assert.NoError(t, report.CertErr)
	assert.Equal(t, "api.example.com", report.Spec.Domain)

	assert.True(t, fileExists(paths.AvailablePath("api.example.com")))
	dest, linkErr := os.Readlink(paths.EnabledPath("api.example.com"))
	require.NoError(t, linkErr)
	assert.Equal(t, paths.AvailablePath("api.example.com"), dest)

	// websocket route pulls the upgrade map into the main config
	conf, readErr := os.ReadFile(paths.MainConfig)
	require.NoError(t, readErr)
	assert.Contains(t, string(conf), "map $http_upgrade $connection_upgrade")

	routes, regErr := p.Registry.Load()
	require.NoError(t, regErr)
	require.Len(t, routes, 1)
	assert.Equal(t, "api.example.com", routes[0].Domain)
	assert.Equal(t, 8080, routes[0].Port)
}

func TestProvisionContinuesAfterCertFailure(t *testing.T) {
	paths := testPaths(t)
	writeMainConf(t, paths)
	proxy := &fakeProxy{}
	issuer := &fakeIssuer{err: newError(KindCertificate, "challenge failed")}
	p := testPipeline(t, paths, proxy, issuer)

	report, err := p.Provision(context.Background(), validInputs())
	require.NoError(t, err, "certificate failure must not fail the run")

	assert.Error(t, report.CertErr)
	assert.Equal(t, KindCertificate, KindOf(report.CertErr))
	assert.True(t, fileExists(paths.AvailablePath("api.example.com")))
	assert.Equal(t, 1, proxy.starts)
}

func TestProvisionConfigTestFailureRollsBack(t *testing.T) {
	paths := testPaths(t)
	writeMainConf(t, paths)
	proxy := &fakeProxy{testErr: errors.New("exit status 1")}
	issuer := &fakeIssuer{}
	p := testPipeline(t, paths, proxy, issuer)

	_, err := p.Provision(context.Background(), validInputs())
	require.Error(t, err)
	assert.Equal(t, KindConfigTest, KindOf(err))

	// link rolled back, config file kept for inspection
	_, linkErr := os.Lstat(paths.EnabledPath("api.example.com"))
	assert.True(t, os.IsNotExist(linkErr))
	assert.True(t, fileExists(paths.AvailablePath("api.example.com")))

	// the proxy still comes back up on the failure path
	assert.Equal(t, 1, proxy.starts)
}

func TestProvisionConflictAbortLeavesFileUntouched(t *testing.T) {
	paths := testPaths(t)
	writeMainConf(t, paths)
	require.NoError(t, ensureDir(paths.SitesAvailable, 0o755))
	target := paths.AvailablePath("api.example.com")
	require.NoError(t, os.WriteFile(target, []byte("hand-written\n"), 0o644))

	proxy := &fakeProxy{}
	p := testPipeline(t, paths, proxy, &fakeIssuer{})
	p.Resolver = FixedResolver{Choice: ChoiceAbort}

	_, err := p.Provision(context.Background(), validInputs())
	require.Error(t, err)
	assert.True(t, Aborted(err))

	content, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	assert.Equal(t, "hand-written\n", string(content))
	assert.Equal(t, 1, proxy.starts, "abort mid-run still restarts the proxy")
}

func TestProvisionSoftDeclineStopsBeforeSideEffects(t *testing.T) {
	paths := testPaths(t)
	writeMainConf(t, paths)
	proxy := &fakeProxy{}
	issuer := &fakeIssuer{}
	p := testPipeline(t, paths, proxy, issuer)
	p.Prompter = AutoPrompter{AllowSoft: false}

	in := validInputs()
	in.Domain = "localhost"

	_, err := p.Provision(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.False(t, Aborted(err), "a decline is a failure, not a clean abort")

	assert.Zero(t, proxy.stops)
	assert.Zero(t, issuer.calls)
	assert.False(t, fileExists(paths.AvailablePath("localhost")))
}

func TestProvisionInvalidPort(t *testing.T) {
	paths := testPaths(t)
	proxy := &fakeProxy{}
	p := testPipeline(t, paths, proxy, &fakeIssuer{})

	in := validInputs()
	in.Port = "99999"

	_, err := p.Provision(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Zero(t, proxy.stops)
}

func TestProvisionMissingTool(t *testing.T) {
	paths := testPaths(t)
	proxy := &fakeProxy{}
	p := testPipeline(t, paths, proxy, &fakeIssuer{})
	p.LookPath = func(bin string) (string, error) {
		if bin == "certbot" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + bin, nil
	}

	_, err := p.Provision(context.Background(), validInputs())
	require.Error(t, err)
	assert.Equal(t, KindToolMissing, KindOf(err))
	assert.Contains(t, err.Error(), "certbot")
	assert.Zero(t, proxy.stops)
}

func TestProvisionSkipsUpgradeMapWithoutWebsockets(t *testing.T) {
	paths := testPaths(t)
	writeMainConf(t, paths)
	p := testPipeline(t, paths, &fakeProxy{}, &fakeIssuer{})

	in := validInputs()
	in.Upgrade = false

	_, err := p.Provision(context.Background(), in)
	require.NoError(t, err)

	conf, readErr := os.ReadFile(paths.MainConfig)
	require.NoError(t, readErr)
	assert.NotContains(t, string(conf), "$connection_upgrade")
}

func TestProvisionReportsSteps(t *testing.T) {
	paths := testPaths(t)
	writeMainConf(t, paths)
	p := testPipeline(t, paths, &fakeProxy{}, &fakeIssuer{})

	var seen []string
	p.Observer = func(s StepResult) { seen = append(seen, s.Name) }

	report, err := p.Provision(context.Background(), validInputs())
	require.NoError(t, err)

	require.Equal(t, len(report.Steps), len(seen))
	for i, s := range report.Steps {
		assert.Equal(t, s.Name, seen[i])
	}

	joined := strings.Join(seen, ",")
	assert.Contains(t, joined, "preflight")
	assert.Contains(t, joined, "request certificate")
	assert.Contains(t, joined, "test configuration")
	assert.Contains(t, joined, "start nginx")
}

func TestValidateBuildsSpec(t *testing.T) {
	p := &Pipeline{
		Prompter: AutoPrompter{},
		Log:      log.New(io.Discard),
	}

	spec, err := p.Validate(Inputs{Domain: "example.com", Port: "3000", Protocol: "https", IPv6: true})
	require.NoError(t, err)
	assert.Equal(t, "example.com", spec.Domain)
	assert.Equal(t, 3000, spec.BackendPort)
	assert.Equal(t, ProtocolHTTPS, spec.BackendProtocol)
	assert.True(t, spec.EnableIPv6)
	assert.Equal(t, "https://localhost:3000", spec.BackendURL())
}
