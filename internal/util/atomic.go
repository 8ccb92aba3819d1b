package util

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AtomicWriteFile writes data to path atomically: write to a sibling ".tmp"
// file, then rename over the target. The rename is atomic on POSIX systems,
// so a crash mid-write never exposes a half-written file at path.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}
	return nil
}

// AtomicWriteYAML marshals v and writes it atomically to path.
func AtomicWriteYAML(path string, v any, perm os.FileMode) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, perm)
}

// EnsureDirAndWriteYAML creates path's parent directory if needed, then
// atomically writes v as YAML.
func EnsureDirAndWriteYAML(path string, v any, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return AtomicWriteYAML(path, v, perm)
}
