package repertoire

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const ManifestName = "takt-repertoire.yaml"

// Manifest is the on-disk takt-repertoire.yaml shape.
type Manifest struct {
	Path string          `yaml:"path,omitempty"`
	Takt TaktRequirement `yaml:"takt,omitempty"`
}

// TaktRequirement declares a minimum takt version the package requires.
type TaktRequirement struct {
	MinVersion string `yaml:"min_version,omitempty"`
}

var semverPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// LoadManifest reads and validates the manifest at the root of dir against
// runningVersion.
func LoadManifest(dir, runningVersion string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("missing %s: %w", ManifestName, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestName, err)
	}
	if err := validateManifest(dir, &m, runningVersion); err != nil {
		return nil, err
	}
	return &m, nil
}

func validateManifest(dir string, m *Manifest, runningVersion string) error {
	if m.Path != "" {
		if filepath.IsAbs(m.Path) {
			return fmt.Errorf("manifest path %q must be relative", m.Path)
		}
		for _, seg := range strings.Split(filepath.ToSlash(m.Path), "/") {
			if seg == ".." {
				return fmt.Errorf("manifest path %q must not contain ..", m.Path)
			}
		}
	}

	if m.Takt.MinVersion != "" {
		if err := checkMinVersion(m.Takt.MinVersion, runningVersion); err != nil {
			return err
		}
	}

	root := filepath.Join(dir, m.Path)
	facets := filepath.Join(root, "facets")
	pieces := filepath.Join(root, "pieces")
	if !dirExists(facets) && !dirExists(pieces) {
		return fmt.Errorf("manifest declares neither facets/ nor pieces/ under %q", m.Path)
	}
	return nil
}

func checkMinVersion(required, running string) error {
	req := semverPattern.FindStringSubmatch(required)
	if req == nil {
		return fmt.Errorf("takt.min_version %q is not MAJOR.MINOR.PATCH", required)
	}
	run := semverPattern.FindStringSubmatch(running)
	if run == nil {
		return fmt.Errorf("running version %q is not MAJOR.MINOR.PATCH", running)
	}
	for i := 1; i <= 3; i++ {
		a, _ := strconv.Atoi(req[i])
		b, _ := strconv.Atoi(run[i])
		if a != b {
			if a > b {
				return fmt.Errorf("package requires takt >= %s, running %s", required, running)
			}
			return nil
		}
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
