// Package cmd implements takt's cobra CLI surface. Each verb is one file
// with an init() that registers its *cobra.Command onto rootCmd.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nrslib/takt/internal/config"
	"github.com/nrslib/takt/internal/facet"
	"github.com/nrslib/takt/internal/iostreams"
	"github.com/nrslib/takt/internal/provider"
	"github.com/nrslib/takt/internal/scheduler"
)

// Version is the running build's version, used for repertoire
// takt.min_version checks. Overridden at build time via -ldflags.
var Version = "0.1.0"

// appContext bundles the resolved directories, merged config, and shared
// collaborators every command needs, built once per invocation from the
// process's working directory and environment.
type appContext struct {
	ProjectRoot     string
	ProjectTaktDir  string
	UserTaktDir     string
	Config          config.Merged
	Resolver        *facet.Resolver
	Streams         *iostreams.IOStreams
	RepertoireRoot  string

	// CLIProvider carries a --provider flag override, the highest-priority
	// layer in provider.Resolve. It is the zero Layer unless the running
	// command accepts that flag and the user set it.
	CLIProvider provider.Layer
}

func newAppContext() (*appContext, error) {
	projectRoot, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	userDir, err := config.UserTaktDir()
	if err != nil {
		return nil, fmt.Errorf("resolving user config dir: %w", err)
	}
	projectDir := config.ProjectTaktDir(projectRoot)

	merged, err := config.Load(userDir, projectDir)
	if err != nil {
		return nil, err
	}

	builtinRoot := builtinFacetRoot()
	resolver := facet.NewResolver(projectDir, userDir, builtinRoot, "")

	return &appContext{
		ProjectRoot:    projectRoot,
		ProjectTaktDir: projectDir,
		UserTaktDir:    userDir,
		Config:         merged,
		Resolver:       resolver,
		Streams:        iostreams.System(),
		RepertoireRoot: filepath.Join(projectDir, "repertoire"),
	}, nil
}

// builtinFacetRoot returns the installation's builtin facet directory,
// honoring TAKT_BUILTIN_DIR for development/test builds that run out of
// the source tree rather than an installed location.
func builtinFacetRoot() string {
	if dir := os.Getenv("TAKT_BUILTIN_DIR"); dir != "" {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(exe), "share", "takt", "facets")
}

// pieceDirs returns the layered piece directories to search, highest
// priority first: project, user, builtin, then every installed repertoire
// package's pieces directory.
func (a *appContext) pieceDirs() []string {
	dirs := []string{
		filepath.Join(a.ProjectTaktDir, "pieces"),
		filepath.Join(a.UserTaktDir, "pieces"),
		filepath.Join(builtinPieceRoot(), "pieces"),
	}
	entries, err := os.ReadDir(a.RepertoireRoot)
	if err == nil {
		for _, owner := range entries {
			if !owner.IsDir() {
				continue
			}
			repos, err := os.ReadDir(filepath.Join(a.RepertoireRoot, owner.Name()))
			if err != nil {
				continue
			}
			for _, repo := range repos {
				if !repo.IsDir() {
					continue
				}
				dirs = append(dirs, filepath.Join(a.RepertoireRoot, owner.Name(), repo.Name(), "pieces"))
			}
		}
	}
	return dirs
}

func builtinPieceRoot() string {
	if dir := os.Getenv("TAKT_BUILTIN_DIR"); dir != "" {
		return filepath.Dir(dir)
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(exe), "share", "takt")
}

func (a *appContext) store() *scheduler.Store {
	return scheduler.NewStore(a.ProjectTaktDir)
}
