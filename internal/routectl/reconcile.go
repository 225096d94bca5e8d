package routectl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

type ConflictChoice int

const (
	// ChoiceBackup moves the existing file to a timestamped backup, then
	// writes the new configuration.
	ChoiceBackup ConflictChoice = iota + 1
	ChoiceOverwrite
	// ChoiceView prints the existing configuration and aborts unchanged.
	ChoiceView
	ChoiceAbort
)

// ConflictResolver decides what to do when a domain already has a
// configuration on disk. The CLI asks the operator; the wizard and tests
// inject a fixed decision.
type ConflictResolver interface {
	ResolveExisting(domain, path string) (ConflictChoice, error)
	ShowConfig(content string)
}

// Reconciler owns every transition of the on-disk route state: the
// per-domain file under sites-available and the activation link under
// sites-enabled. The renderer never touches the filesystem; this does.
type Reconciler struct {
	paths    Paths
	resolver ConflictResolver
	log      *log.Logger
}

func NewReconciler(paths Paths, resolver ConflictResolver, logger *log.Logger) *Reconciler {
	return &Reconciler{paths: paths, resolver: resolver, log: logger}
}

// WriteConfig places the rendered text at the conventional per-domain path.
// A fresh domain is written directly; an existing file goes through the
// four-choice conflict menu. Returns the written path, or ErrAborted when
// the operator declined.
func (r *Reconciler) WriteConfig(domain, content string) (string, error) {
	target := r.paths.AvailablePath(domain)
	if err := ensureDir(r.paths.SitesAvailable, 0o755); err != nil {
		return "", err
	}

	if !fileExists(target) {
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return "", err
		}
		r.log.Info("wrote virtual host", "path", target)
		return target, nil
	}

	choice, err := r.resolver.ResolveExisting(domain, target)
	if err != nil {
		return "", wrapError(KindStateConflict, err, "resolve existing config for %s", domain)
	}

	switch choice {
	case ChoiceBackup:
		backup := target + ".bak." + timestamp()
		if err := os.Rename(target, backup); err != nil {
			return "", fmt.Errorf("backup existing config: %w", err)
		}
		r.log.Info("backed up existing config", "path", backup)
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return "", err
		}
		return target, nil
	case ChoiceOverwrite:
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return "", err
		}
		r.log.Info("overwrote virtual host", "path", target)
		return target, nil
	case ChoiceView:
		existing, err := os.ReadFile(target)
		if err != nil {
			return "", err
		}
		r.resolver.ShowConfig(string(existing))
		return "", ErrAborted
	case ChoiceAbort:
		return "", ErrAborted
	default:
		return "", newError(KindStateConflict, "invalid choice for existing config %s", target)
	}
}

// Enable makes the domain live by pointing the activation link at the
// sites-available file. Three states need repair: a valid link is kept or
// retargeted, a broken link is removed and recreated, and a foreign regular
// file is backed up before the link replaces it.
func (r *Reconciler) Enable(domain string) (string, error) {
	target := r.paths.AvailablePath(domain)
	link := r.paths.EnabledPath(domain)
	if err := ensureDir(r.paths.SitesEnabled, 0o755); err != nil {
		return "", err
	}

	info, err := os.Lstat(link)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// nothing occupies the activation path

	case err != nil:
		return "", err

	case info.Mode()&os.ModeSymlink != 0:
		dest, readErr := os.Readlink(link)
		if readErr == nil && dest == target && fileExists(target) {
			return link, nil
		}
		if readErr == nil {
			if _, statErr := os.Stat(link); statErr != nil {
				r.log.Warn("removing broken activation link", "path", link, "dest", dest)
			} else {
				r.log.Warn("retargeting activation link", "path", link, "old", dest)
			}
		}
		if err := os.Remove(link); err != nil {
			return "", fmt.Errorf("remove stale link: %w", err)
		}

	default:
		// a regular file squats on the activation path
		backup := link + ".bak." + timestamp()
		if err := os.Rename(link, backup); err != nil {
			return "", fmt.Errorf("back up foreign file at %s: %w", link, err)
		}
		r.log.Warn("activation path held a regular file, backed up", "path", link, "backup", backup)
	}

	if err := os.Symlink(target, link); err != nil {
		return "", fmt.Errorf("create activation link: %w", err)
	}
	r.log.Info("enabled route", "link", link, "target", filepath.Base(target))
	return link, nil
}

// RollbackLink undoes a just-created activation link after a failed config
// test, leaving the previous state active.
func (r *Reconciler) RollbackLink(domain string) error {
	link := r.paths.EnabledPath(domain)
	if err := os.Remove(link); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	r.log.Warn("rolled back activation link", "link", link)
	return nil
}

// Disable removes the activation link but keeps the sites-available file so
// the route can be re-enabled later.
func (r *Reconciler) Disable(domain string) error {
	link := r.paths.EnabledPath(domain)
	if err := os.Remove(link); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("route %s is not enabled", domain)
		}
		return err
	}
	r.log.Info("disabled route", "domain", domain)
	return nil
}
