package routectl

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

type CheckResult struct {
	Name string
	OK   bool
	Err  error
}

// RunChecks is the preflight battery behind `routectl doctor` and the
// wizard's preflight screen.
func RunChecks(paths Paths) []CheckResult {
	ctx := context.Background()

	checks := []struct {
		name string
		fn   func() error
	}{
		{"nginx binary", func() error {
			_, err := exec.LookPath(paths.NginxBin)
			return err
		}},
		{"certbot binary", func() error {
			_, err := exec.LookPath(paths.CertbotBin)
			return err
		}},
		{"systemctl binary", func() error {
			_, err := exec.LookPath(paths.SystemctlBin)
			return err
		}},
		{"nginx main config", func() error {
			if _, err := os.Stat(paths.MainConfig); err != nil {
				return err
			}
			return nil
		}},
		{"sites-available writable", func() error {
			return writableCheck(paths.SitesAvailable)
		}},
		{"sites-enabled writable", func() error {
			return writableCheck(paths.SitesEnabled)
		}},
		{"ports 80/443 serving", func() error {
			ports := VerifyPorts(ctx)
			if !ports[80] && !ports[443] {
				return fmt.Errorf("nothing is listening on 80 or 443")
			}
			return nil
		}},
	}

	results := make([]CheckResult, 0, len(checks))
	for _, check := range checks {
		err := check.fn()
		results = append(results, CheckResult{Name: check.name, OK: err == nil, Err: err})
	}
	return results
}

func RunDoctor(paths Paths) error {
	fmt.Println("routectl doctor")
	fmt.Printf("runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	for _, r := range RunChecks(paths) {
		if r.OK {
			fmt.Printf("[ OK ] %s\n", r.Name)
		} else {
			fmt.Printf("[WARN] %s: %v\n", r.Name, r.Err)
		}
	}
	return nil
}

func writableCheck(dir string) error {
	if err := ensureDir(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "routectl-write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
