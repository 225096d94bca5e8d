package routectl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Default deadline for external tool invocations. A hang past this is a
// fatal error distinct from a clean non-zero exit.
const cmdTimeout = 2 * time.Minute

func ensureDir(path string, mode os.FileMode) error {
	return os.MkdirAll(path, mode)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func timestamp() string {
	return time.Now().UTC().Format("20060102T150405Z")
}

func runCmdCapture(ctx context.Context, name string, args ...string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, cmdTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, name, args...)
	out, err := cmd.CombinedOutput()
	if errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return string(out), fmt.Errorf("%s timed out after %s", name, cmdTimeout)
	}
	return string(out), err
}

func runCmdStream(ctx context.Context, name string, args ...string) error {
	cctx, cancel := context.WithTimeout(ctx, cmdTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out after %s", name, cmdTimeout)
	}
	return err
}
