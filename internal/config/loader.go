package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads config.yaml from userDir and projectDir (either may be
// missing, which is not an error — an absent file behaves as a zero-value
// Config) and returns the merged result.
func Load(userDir, projectDir string) (Merged, error) {
	user, err := loadOne(filepath.Join(userDir, "config.yaml"))
	if err != nil {
		return Merged{}, fmt.Errorf("loading user config: %w", err)
	}
	project, err := loadOne(filepath.Join(projectDir, "config.yaml"))
	if err != nil {
		return Merged{}, fmt.Errorf("loading project config: %w", err)
	}
	return Merge(user, project), nil
}

func loadOne(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

// SetPermissionMode sets mode in the config.yaml at dir, creating the file
// if absent and preserving any other keys already present.
func SetPermissionMode(dir string, mode PermissionPreset) error {
	path := filepath.Join(dir, "config.yaml")
	c, err := loadOne(path)
	if err != nil {
		return err
	}
	c.PermissionMode = mode
	return writeConfig(path, c)
}

// SetDefaultPiece sets default_piece in the config.yaml at dir.
func SetDefaultPiece(dir, piece string) error {
	path := filepath.Join(dir, "config.yaml")
	c, err := loadOne(path)
	if err != nil {
		return err
	}
	c.DefaultPiece = piece
	return writeConfig(path, c)
}

func writeConfig(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResetConfig backs up the config.yaml at dir to a timestamped
// "config.yaml.YYYYMMDD-HHMMSS.old" sibling (when present) and replaces it
// with builtinDefault.
func ResetConfig(dir string, builtinDefault []byte) error {
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		backup := path + "." + time.Now().Format("20060102-150405") + ".old"
		if err := os.Rename(path, backup); err != nil {
			return fmt.Errorf("backing up config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, builtinDefault, 0644)
}

// ResetCategories writes an empty preferences/piece-categories.yaml overlay.
func ResetCategories(projectTaktDir string) error {
	path := filepath.Join(projectTaktDir, "preferences", "piece-categories.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("categories: {}\n"), 0644)
}
