// Package facet resolves named persona/policy/knowledge/instruction/
// output-contract references to their markdown content.
//
// Resolution is a three-layer filesystem lookup: project, then user, then
// builtin. The first layer that has the file wins; content is read eagerly
// so the resolved Facet is immutable once returned.
package facet

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Type identifies one of the five facet kinds. The directory name under
// each layer root is the Type's string value.
type Type string

const (
	Persona         Type = "personas"
	Policy          Type = "policies"
	Knowledge       Type = "knowledge"
	Instruction     Type = "instructions"
	OutputContract  Type = "output-contracts"
)

// Facet is resolved facet content plus the name it was resolved from, kept
// for diagnostics (error messages, session-log context).
type Facet struct {
	Name    string
	Type    Type
	Content string
	// Layer records which layer satisfied the lookup: "project", "user", or
	// "builtin".
	Layer string
	// Path is the absolute path the content was read from.
	Path string
}

// Resolver performs the three-layer lookup.
type Resolver struct {
	ProjectDir string // PROJECT/.takt
	UserDir    string // USER_HOME/.takt
	BuiltinDir string // <install>/<lang>
	Lang       string
}

// NewResolver builds a Resolver rooted at the given project and user takt
// directories. builtinRoot is the installation's facet root (before the
// per-language subdirectory); lang selects the subdirectory, defaulting to
// "en" when empty.
func NewResolver(projectDir, userDir, builtinRoot, lang string) *Resolver {
	if lang == "" {
		lang = "en"
	}
	return &Resolver{
		ProjectDir: projectDir,
		UserDir:    userDir,
		BuiltinDir: filepath.Join(builtinRoot, lang),
		Lang:       lang,
	}
}

// Resolve looks up name under typ across the three layers, first hit wins.
// A ResourceMissing-class error is returned when no layer has the file.
func (r *Resolver) Resolve(typ Type, name string) (*Facet, error) {
	candidates := []struct {
		layer string
		root  string
	}{
		{"project", r.ProjectDir},
		{"user", r.UserDir},
		{"builtin", r.BuiltinDir},
	}

	for _, c := range candidates {
		if c.root == "" {
			continue
		}
		path := filepath.Join(c.root, string(typ), name+".md")
		data, err := os.ReadFile(path)
		if err == nil {
			return &Facet{
				Name:    name,
				Type:    typ,
				Content: string(data),
				Layer:   c.layer,
				Path:    path,
			}, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading facet %s/%s at %s layer: %w", typ, name, c.layer, err)
		}
	}

	return nil, &NotFoundError{Type: typ, Name: name}
}

// Entry is one name visible under a Type, annotated with the layer that
// would satisfy it first (matching Resolve's project/user/builtin order).
type Entry struct {
	Name  string
	Layer string
}

// List returns every distinct facet name under typ across all three
// layers, each annotated with the highest-priority layer that has it.
// Names are sorted alphabetically.
func (r *Resolver) List(typ Type) ([]Entry, error) {
	layers := []struct {
		layer string
		root  string
	}{
		{"project", r.ProjectDir},
		{"user", r.UserDir},
		{"builtin", r.BuiltinDir},
	}

	bestLayer := make(map[string]string)
	for _, l := range layers {
		if l.root == "" {
			continue
		}
		dir := filepath.Join(l.root, string(typ))
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("listing facets %s at %s layer: %w", typ, l.layer, err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ".md")
			if _, ok := bestLayer[name]; !ok {
				bestLayer[name] = l.layer
			}
		}
	}

	names := make([]string, 0, len(bestLayer))
	for name := range bestLayer {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Entry, 0, len(names))
	for _, name := range names {
		out = append(out, Entry{Name: name, Layer: bestLayer[name]})
	}
	return out, nil
}

// NotFoundError indicates a facet name could not be resolved at any layer.
type NotFoundError struct {
	Type Type
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("facet %s %q not found in project, user, or builtin directories", e.Type, e.Name)
}
