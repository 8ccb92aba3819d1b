package repertoire

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nrslib/takt/internal/util"
)

const LockfileName = ".takt-repertoire-lock.yaml"

// Lockfile records where an installed package came from.
type Lockfile struct {
	Source     string    `yaml:"source"`
	Ref        string    `yaml:"ref"`
	Commit     string    `yaml:"commit"`
	ImportedAt time.Time `yaml:"imported_at"`
}

// WriteLockfile atomically writes lock to <target>/.takt-repertoire-lock.yaml.
func WriteLockfile(target string, lock *Lockfile) error {
	return util.EnsureDirAndWriteYAML(filepath.Join(target, LockfileName), lock, 0644)
}

// ReadLockfile reads the lock file under target, if present.
func ReadLockfile(target string) (*Lockfile, error) {
	data, err := os.ReadFile(filepath.Join(target, LockfileName))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", LockfileName, err)
	}
	var lock Lockfile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", LockfileName, err)
	}
	return &lock, nil
}
