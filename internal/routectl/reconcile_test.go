package routectl

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReconciler(t *testing.T, paths Paths, choice ConflictChoice) *Reconciler {
	t.Helper()
	return NewReconciler(paths, FixedResolver{Choice: choice}, log.New(io.Discard))
}

func globOne(t *testing.T, pattern string) []string {
	t.Helper()
	matches, err := filepath.Glob(pattern)
	require.NoError(t, err)
	return matches
}

func TestWriteConfigFreshDomain(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, 0)

	target, err := r.WriteConfig("example.com", "server {}\n")
	require.NoError(t, err)
	assert.Equal(t, paths.AvailablePath("example.com"), target)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "server {}\n", string(content))
}

func TestWriteConfigBackupChoice(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, ChoiceBackup)
	target := paths.AvailablePath("example.com")

	require.NoError(t, ensureDir(paths.SitesAvailable, 0o755))
	require.NoError(t, os.WriteFile(target, []byte("old\n"), 0o644))

	_, err := r.WriteConfig("example.com", "new\n")
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(content))

	backups := globOne(t, target+".bak.*")
	require.Len(t, backups, 1)
	old, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(old))
}

func TestWriteConfigOverwriteChoice(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, ChoiceOverwrite)
	target := paths.AvailablePath("example.com")

	require.NoError(t, ensureDir(paths.SitesAvailable, 0o755))
	require.NoError(t, os.WriteFile(target, []byte("old\n"), 0o644))

	_, err := r.WriteConfig("example.com", "new\n")
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(content))
	assert.Empty(t, globOne(t, target+".bak.*"))
}

func TestWriteConfigViewThenAbort(t *testing.T) {
	paths := testPaths(t)
	var shown string
	r := NewReconciler(paths, FixedResolver{
		Choice: ChoiceView,
		Shown:  func(content string) { shown = content },
	}, log.New(io.Discard))
	target := paths.AvailablePath("example.com")

	require.NoError(t, ensureDir(paths.SitesAvailable, 0o755))
	require.NoError(t, os.WriteFile(target, []byte("original\n"), 0o644))

	_, err := r.WriteConfig("example.com", "new\n")
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, "original\n", shown)

	// byte-for-byte unchanged, no backup
	content, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	assert.Equal(t, "original\n", string(content))
	assert.Empty(t, globOne(t, target+".bak.*"))
}

func TestWriteConfigAbortChoice(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, ChoiceAbort)
	target := paths.AvailablePath("example.com")

	require.NoError(t, ensureDir(paths.SitesAvailable, 0o755))
	require.NoError(t, os.WriteFile(target, []byte("original\n"), 0o644))

	_, err := r.WriteConfig("example.com", "new\n")
	assert.ErrorIs(t, err, ErrAborted)

	content, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	assert.Equal(t, "original\n", string(content))
}

func TestWriteConfigInvalidChoiceFails(t *testing.T) {
	paths := testPaths(t)
	// FixedResolver with no preselected choice errors out
	r := testReconciler(t, paths, 0)
	target := paths.AvailablePath("example.com")

	require.NoError(t, ensureDir(paths.SitesAvailable, 0o755))
	require.NoError(t, os.WriteFile(target, []byte("original\n"), 0o644))

	_, err := r.WriteConfig("example.com", "new\n")
	require.Error(t, err)
	assert.Equal(t, KindStateConflict, KindOf(err))
}

func TestEnableCreatesLink(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, 0)

	_, err := r.WriteConfig("example.com", "server {}\n")
	require.NoError(t, err)

	link, err := r.Enable("example.com")
	require.NoError(t, err)

	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, paths.AvailablePath("example.com"), dest)
}

func TestEnableKeepsValidLink(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, 0)

	_, err := r.WriteConfig("example.com", "server {}\n")
	require.NoError(t, err)
	first, err := r.Enable("example.com")
	require.NoError(t, err)

	second, err := r.Enable("example.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnableRepairsBrokenLink(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, 0)

	_, err := r.WriteConfig("example.com", "server {}\n")
	require.NoError(t, err)

	require.NoError(t, ensureDir(paths.SitesEnabled, 0o755))
	link := paths.EnabledPath("example.com")
	require.NoError(t, os.Symlink(filepath.Join(paths.SitesAvailable, "gone.conf"), link))

	_, err = r.Enable("example.com")
	require.NoError(t, err)

	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, paths.AvailablePath("example.com"), dest)
	assert.Empty(t, globOne(t, link+".bak.*"), "broken links are repaired, not backed up")
}

func TestEnableRetargetsForeignLink(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, 0)

	_, err := r.WriteConfig("example.com", "server {}\n")
	require.NoError(t, err)

	other := filepath.Join(paths.SitesAvailable, "other.conf")
	require.NoError(t, os.WriteFile(other, []byte("other\n"), 0o644))
	require.NoError(t, ensureDir(paths.SitesEnabled, 0o755))
	link := paths.EnabledPath("example.com")
	require.NoError(t, os.Symlink(other, link))

	_, err = r.Enable("example.com")
	require.NoError(t, err)

	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, paths.AvailablePath("example.com"), dest)
	assert.Empty(t, globOne(t, link+".bak.*"))
}

func TestEnableBacksUpRegularFile(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, 0)

	_, err := r.WriteConfig("example.com", "server {}\n")
	require.NoError(t, err)

	require.NoError(t, ensureDir(paths.SitesEnabled, 0o755))
	link := paths.EnabledPath("example.com")
	require.NoError(t, os.WriteFile(link, []byte("squatter\n"), 0o644))

	_, err = r.Enable("example.com")
	require.NoError(t, err)

	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, paths.AvailablePath("example.com"), dest)

	backups := globOne(t, link+".bak.*")
	require.Len(t, backups, 1)
	content, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, "squatter\n", string(content))
}

func TestRollbackLink(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, 0)

	_, err := r.WriteConfig("example.com", "server {}\n")
	require.NoError(t, err)
	link, err := r.Enable("example.com")
	require.NoError(t, err)

	require.NoError(t, r.RollbackLink("example.com"))
	_, err = os.Lstat(link)
	assert.True(t, os.IsNotExist(err))

	// rolling back twice is fine
	require.NoError(t, r.RollbackLink("example.com"))
}

func TestDisable(t *testing.T) {
	paths := testPaths(t)
	r := testReconciler(t, paths, 0)

	_, err := r.WriteConfig("example.com", "server {}\n")
	require.NoError(t, err)
	_, err = r.Enable("example.com")
	require.NoError(t, err)

	require.NoError(t, r.Disable("example.com"))
	assert.True(t, fileExists(paths.AvailablePath("example.com")), "config file is kept")

	err = r.Disable("example.com")
	assert.ErrorContains(t, err, "not enabled")
}
