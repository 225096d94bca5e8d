package routectl

import (
	"fmt"
	"os"
	"strings"
)

const upgradeMapMarker = "map $http_upgrade $connection_upgrade"

const upgradeMapBlock = `    map $http_upgrade $connection_upgrade {
        default upgrade;
        '' close;
    }`

// EnsureUpgradeMap inserts the websocket upgrade map into the http block of
// the nginx main configuration, exactly once. The content check makes the
// operation idempotent across repeated runs. Returns true when the file was
// modified.
func EnsureUpgradeMap(mainConfig string) (bool, error) {
	content, err := os.ReadFile(mainConfig)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", mainConfig, err)
	}
	text := string(content)
	if strings.Contains(text, upgradeMapMarker) {
		return false, nil
	}

	lines := strings.Split(text, "\n")
	httpAt := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "http {" || strings.HasPrefix(trimmed, "http {") {
			httpAt = i
			break
		}
	}
	if httpAt < 0 {
		return false, fmt.Errorf("no http block found in %s", mainConfig)
	}

	updated := make([]string, 0, len(lines)+2)
	updated = append(updated, lines[:httpAt+1]...)
	updated = append(updated, upgradeMapBlock)
	updated = append(updated, lines[httpAt+1:]...)

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(mainConfig); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(mainConfig, []byte(strings.Join(updated, "\n")), mode); err != nil {
		return false, fmt.Errorf("write %s: %w", mainConfig, err)
	}
	return true, nil
}
