package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nrslib/takt/internal/piece"
)

// findPiece loads the named piece from the first layer that has it:
// project, user, builtin, then installed repertoire packages, in that
// order (facet.Resolver covers persona/policy/etc. the same way).
func (a *appContext) findPiece(name string) (*piece.Piece, error) {
	for _, dir := range a.pieceDirs() {
		path := filepath.Join(dir, name+".yaml")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return piece.Load(path, a.Resolver)
	}
	return nil, fmt.Errorf("piece %q not found", name)
}

// listPieceNames returns every distinct piece name visible across all
// layers, project/user/builtin/repertoire, first occurrence wins.
func (a *appContext) listPieceNames() ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, dir := range a.pieceDirs() {
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("listing pieces in %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
				continue
			}
			name := e.Name()[:len(e.Name())-len(".yaml")]
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}
