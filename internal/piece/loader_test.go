package piece

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nrslib/takt/internal/facet"
)

const validPieceYAML = `
name: review-fix
initialMovement: review
maxMovements: 5
movements:
  - name: review
    persona: reviewer
    instruction: "review {task}"
    rules:
      - condition: APPROVED
        next: COMPLETE
      - condition: CHANGES_REQUESTED
        next: fix
  - name: fix
    persona: coder
    instruction: "fix {task}, previous: {previous_response}"
    passPreviousResponse: true
    rules:
      - condition: DONE
        next: review
`

func TestLoadBytes_Valid(t *testing.T) {
	p, err := LoadBytes([]byte(validPieceYAML), "test.yaml", nil)
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}
	if p.Name != "review-fix" {
		t.Errorf("Name = %q, want review-fix", p.Name)
	}
	if len(p.Movements) != 2 {
		t.Fatalf("len(Movements) = %d, want 2", len(p.Movements))
	}
	if p.MovementByName("review") == nil {
		t.Errorf("MovementByName(review) = nil")
	}
}

func TestLoadBytes_UnknownInitialMovement(t *testing.T) {
	bad := `
name: broken
initialMovement: nope
movements:
  - name: a
    rules:
      - condition: X
        next: COMPLETE
`
	_, err := LoadBytes([]byte(bad), "test.yaml", nil)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
}

func TestLoadBytes_UnknownRuleTarget(t *testing.T) {
	bad := `
name: broken
initialMovement: a
movements:
  - name: a
    rules:
      - condition: X
        next: ghost-movement
`
	_, err := LoadBytes([]byte(bad), "test.yaml", nil)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
}

func TestLoad_FacetResolution(t *testing.T) {
	dir := t.TempDir()
	instrDir := filepath.Join(dir, "project", "instructions")
	if err := writeFile(filepath.Join(instrDir, "house-style.md"), "be terse"); err != nil {
		t.Fatal(err)
	}

	resolver := facet.NewResolver(filepath.Join(dir, "project"), filepath.Join(dir, "user"), filepath.Join(dir, "builtin"), "")

	src := `
name: uses-facet
initialMovement: a
movements:
  - name: a
    instructionFrom: house-style
    rules:
      - condition: X
        next: COMPLETE
`
	piecePath := filepath.Join(dir, "piece.yaml")
	if err := writeFile(piecePath, src); err != nil {
		t.Fatal(err)
	}

	p, err := Load(piecePath, resolver)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Movements[0].InstructionTemplate != "be terse" {
		t.Errorf("InstructionTemplate = %q, want %q", p.Movements[0].InstructionTemplate, "be terse")
	}
}

func TestLoad_PieceLevelFacetsResolveToContent(t *testing.T) {
	dir := t.TempDir()
	projectDir := filepath.Join(dir, "project")
	if err := writeFile(filepath.Join(projectDir, "policies", "no-force-push.md"), "never force-push shared branches"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(projectDir, "knowledge", "repo-layout.md"), "monorepo, services under services/"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(projectDir, "instructions", "tone.md"), "be direct"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(projectDir, "output-contracts", "findings.md"), "## Findings\n- id\n- severity"); err != nil {
		t.Fatal(err)
	}

	resolver := facet.NewResolver(projectDir, filepath.Join(dir, "user"), filepath.Join(dir, "builtin"), "")

	src := `
name: audited
initialMovement: a
policies: [no-force-push]
knowledge: [repo-layout]
instructions: [tone]
reportFormat: findings
movements:
  - name: a
    instruction: "go"
    rules:
      - condition: X
        next: COMPLETE
`
	piecePath := filepath.Join(dir, "piece.yaml")
	if err := writeFile(piecePath, src); err != nil {
		t.Fatal(err)
	}

	p, err := Load(piecePath, resolver)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(p.Policies) != 1 || p.Policies[0] != "never force-push shared branches" {
		t.Errorf("Policies = %v, want resolved content", p.Policies)
	}
	if len(p.Knowledge) != 1 || p.Knowledge[0] != "monorepo, services under services/" {
		t.Errorf("Knowledge = %v, want resolved content", p.Knowledge)
	}
	if len(p.Instructions) != 1 || p.Instructions[0] != "be direct" {
		t.Errorf("Instructions = %v, want resolved content", p.Instructions)
	}
	if p.ReportFormat != "## Findings\n- id\n- severity" {
		t.Errorf("ReportFormat = %q, want resolved content", p.ReportFormat)
	}
}

func TestLoad_PieceLevelFacetWithoutResolverErrors(t *testing.T) {
	src := `
name: audited
initialMovement: a
policies: [no-force-push]
movements:
  - name: a
    instruction: "go"
    rules:
      - condition: X
        next: COMPLETE
`
	_, err := LoadBytes([]byte(src), "test.yaml", nil)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
}

func TestGenerateHybridCodex(t *testing.T) {
	p, err := LoadBytes([]byte(validPieceYAML), "test.yaml", nil)
	if err != nil {
		t.Fatal(err)
	}
	variants := GenerateHybridCodex([]*Piece{p}, nil)
	if len(variants) != 1 {
		t.Fatalf("len(variants) = %d, want 1", len(variants))
	}
	v := variants[0]
	if v.Name != "review-fix-hybrid-codex" {
		t.Errorf("Name = %q", v.Name)
	}
	if v.Personas["coder"].Provider != "codex" {
		t.Errorf("coder persona provider = %q, want codex", v.Personas["coder"].Provider)
	}
	if p.Name != "review-fix" {
		t.Errorf("original piece mutated: Name = %q", p.Name)
	}

	skipped := GenerateHybridCodex([]*Piece{p}, []string{"review-fix"})
	if len(skipped) != 0 {
		t.Errorf("len(skipped) = %d, want 0", len(skipped))
	}
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
