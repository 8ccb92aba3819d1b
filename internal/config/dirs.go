// Package config resolves per-user and per-project YAML configuration,
// merges them, and resolves provider secrets from environment variables
// with config-file fallback.
package config

import (
	"os"
	"path/filepath"
)

// UserTaktDir returns USER_HOME/.takt, honoring the TAKT_CONFIG_DIR
// override env var.
func UserTaktDir() (string, error) {
	if dir := os.Getenv("TAKT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".takt"), nil
}

// ProjectTaktDir returns PROJECT/.takt for the given project root.
func ProjectTaktDir(projectRoot string) string {
	return filepath.Join(projectRoot, ".takt")
}

// NoTTY reports whether the process should behave as non-interactive,
// honoring TAKT_NO_TTY=1.
func NoTTY() bool {
	return os.Getenv("TAKT_NO_TTY") == "1"
}
