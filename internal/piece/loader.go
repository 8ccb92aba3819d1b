package piece

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/nrslib/takt/internal/facet"
)

// rawPiece mirrors the on-disk YAML shape. Facet references are resolved to
// content during Load; the normalized Piece never carries raw YAML tags.
type rawPiece struct {
	Name            string            `yaml:"name"`
	InitialMovement string            `yaml:"initialMovement"`
	MaxMovements    int               `yaml:"maxMovements"`
	Movements       []rawMovement     `yaml:"movements"`
	Personas        map[string]rawPersona `yaml:"personas"`
	Policies        []string          `yaml:"policies"`
	Knowledge       []string          `yaml:"knowledge"`
	Instructions    []string          `yaml:"instructions"`
	ReportFormat    string            `yaml:"reportFormat"`
	LoopMonitors    []rawLoopMonitor  `yaml:"loopMonitors"`
}

type rawPersona struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

type rawMovement struct {
	Name                 string          `yaml:"name"`
	Persona              string          `yaml:"persona"`
	Instruction          string          `yaml:"instruction"`
	InstructionFrom      string          `yaml:"instructionFrom"`
	PassPreviousResponse bool            `yaml:"passPreviousResponse"`
	PermissionMode       string          `yaml:"permissionMode"`
	Provider             string          `yaml:"provider"`
	Model                string          `yaml:"model"`
	Rules                []rawRule       `yaml:"rules"`
	Parallel             []string        `yaml:"parallel"`
	TeamLeader           *rawTeamLeader  `yaml:"teamLeader"`
	QualityGates         []string        `yaml:"qualityGates"`
	OutputContract       string          `yaml:"outputContract"`
}

type rawRule struct {
	Condition string `yaml:"condition"`
	Next      string `yaml:"next"`
}

type rawTeamLeader struct {
	MaxParts         int      `yaml:"maxParts"`
	PartPersona      string   `yaml:"partPersona"`
	PartAllowedTools []string `yaml:"partAllowedTools"`
	PartPermissionMode string `yaml:"partPermissionMode"`
	PartEdit         bool     `yaml:"partEdit"`
	RefillThreshold  int      `yaml:"refillThreshold"`
}

type rawLoopMonitor struct {
	Cycle     []string `yaml:"cycle"`
	Threshold int      `yaml:"threshold"`
}

// Load parses the piece YAML at path, resolves every facet reference through
// resolver, and validates the result. Facet content is read eagerly and
// attached to the movement; the original facet name is retained in
// Movement.Persona for diagnostics even after resolution.
func Load(path string, resolver *facet.Resolver) (*Piece, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading piece file %s: %w", path, err)
	}
	return LoadBytes(data, path, resolver)
}

// LoadBytes parses already-read piece YAML. path is used only for error
// messages (it need not exist on disk — used by `prompt <path>`).
func LoadBytes(data []byte, path string, resolver *facet.Resolver) (*Piece, error) {
	var raw rawPiece
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Piece: path, Reason: fmt.Sprintf("invalid YAML: %v", err)}
	}

	p := &Piece{
		Name:            raw.Name,
		InitialMovement: raw.InitialMovement,
		MaxMovements:    raw.MaxMovements,
		Personas:        map[string]PersonaRef{},
	}
	if p.MaxMovements <= 0 {
		p.MaxMovements = 20
	}

	var err error
	if p.Policies, err = resolveFacetList(resolver, facet.Policy, raw.Policies, p.Name); err != nil {
		return nil, err
	}
	if p.Knowledge, err = resolveFacetList(resolver, facet.Knowledge, raw.Knowledge, p.Name); err != nil {
		return nil, err
	}
	if p.Instructions, err = resolveFacetList(resolver, facet.Instruction, raw.Instructions, p.Name); err != nil {
		return nil, err
	}
	if raw.ReportFormat != "" {
		if resolver == nil {
			return nil, &ValidationError{Piece: p.Name, Reason: fmt.Sprintf("reportFormat %q is set but no facet resolver is configured", raw.ReportFormat)}
		}
		f, err := resolver.Resolve(facet.OutputContract, raw.ReportFormat)
		if err != nil {
			return nil, &ValidationError{Piece: p.Name, Reason: fmt.Sprintf("reportFormat: %v", err)}
		}
		p.ReportFormat = f.Content
	}

	for name, rp := range raw.Personas {
		p.Personas[name] = PersonaRef{Name: name, Provider: rp.Provider, Model: rp.Model}
	}

	for _, rm := range raw.Movements {
		m, err := buildMovement(rm, resolver)
		if err != nil {
			return nil, fmt.Errorf("piece %q: %w", p.Name, err)
		}
		p.Movements = append(p.Movements, m)
	}

	for _, rlm := range raw.LoopMonitors {
		p.LoopMonitors = append(p.LoopMonitors, LoopMonitor{Cycle: rlm.Cycle, Threshold: rlm.Threshold})
	}

	p.buildIndex()

	if err := validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// resolveFacetList resolves each name in names through resolver under typ,
// returning the resolved content in the same order. An empty names list
// never requires a resolver.
func resolveFacetList(resolver *facet.Resolver, typ facet.Type, names []string, pieceName string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if resolver == nil {
		return nil, &ValidationError{Piece: pieceName, Reason: fmt.Sprintf("piece references %s %v but no facet resolver is configured", typ, names)}
	}
	content := make([]string, len(names))
	for i, name := range names {
		f, err := resolver.Resolve(typ, name)
		if err != nil {
			return nil, &ValidationError{Piece: pieceName, Reason: fmt.Sprintf("%s %q: %v", typ, name, err)}
		}
		content[i] = f.Content
	}
	return content, nil
}

func buildMovement(rm rawMovement, resolver *facet.Resolver) (*Movement, error) {
	m := &Movement{
		Name:                 rm.Name,
		Persona:              rm.Persona,
		InstructionTemplate:  rm.Instruction,
		PassPreviousResponse: rm.PassPreviousResponse,
		PermissionMode:       PermissionMode(rm.PermissionMode),
		Provider:             rm.Provider,
		Model:                rm.Model,
		Parallel:             rm.Parallel,
		QualityGates:         rm.QualityGates,
	}

	if m.InstructionTemplate == "" && rm.InstructionFrom != "" {
		if resolver == nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("movement %q references instructionFrom %q but no facet resolver is configured", rm.Name, rm.InstructionFrom)}
		}
		f, err := resolver.Resolve(facet.Instruction, rm.InstructionFrom)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("movement %q: %v", rm.Name, err)}
		}
		m.InstructionTemplate = f.Content
	}

	if rm.OutputContract != "" {
		if resolver == nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("movement %q references outputContract %q but no facet resolver is configured", rm.Name, rm.OutputContract)}
		}
		f, err := resolver.Resolve(facet.OutputContract, rm.OutputContract)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("movement %q: %v", rm.Name, err)}
		}
		m.OutputContract = f.Content
	}

	for _, rr := range rm.Rules {
		m.Rules = append(m.Rules, Rule{Condition: rr.Condition, Next: rr.Next})
	}

	if rm.TeamLeader != nil {
		m.TeamLeader = &TeamLeader{
			MaxParts:         rm.TeamLeader.MaxParts,
			PartPersona:      rm.TeamLeader.PartPersona,
			PartAllowedTools: rm.TeamLeader.PartAllowedTools,
			PartPermission:   PermissionMode(rm.TeamLeader.PartPermissionMode),
			PartEdit:         rm.TeamLeader.PartEdit,
			RefillThreshold:  rm.TeamLeader.RefillThreshold,
		}
		if m.TeamLeader.MaxParts <= 0 {
			return nil, &ValidationError{Reason: fmt.Sprintf("movement %q: teamLeader.maxParts must be > 0", rm.Name)}
		}
	}

	return m, nil
}

var ruleTargetOK = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// validate checks the invariants from: initialMovement names an
// existing movement, and every rule.next is either a known movement name or
// a terminal token.
func validate(p *Piece) error {
	if p.Name == "" {
		return &ValidationError{Reason: "missing name"}
	}
	if len(p.Movements) == 0 {
		return &ValidationError{Piece: p.Name, Reason: "no movements defined"}
	}
	if p.MovementByName(p.InitialMovement) == nil {
		return &ValidationError{Piece: p.Name, Reason: fmt.Sprintf("initialMovement %q is not a defined movement", p.InitialMovement)}
	}

	for _, m := range p.Movements {
		if m.Name == "" {
			return &ValidationError{Piece: p.Name, Reason: "movement with empty name"}
		}
		for _, sub := range m.Parallel {
			if p.MovementByName(sub) == nil {
				return &ValidationError{Piece: p.Name, Reason: fmt.Sprintf("movement %q: parallel sub-movement %q not defined", m.Name, sub)}
			}
		}
		for _, r := range m.Rules {
			if r.Next == "" {
				continue
			}
			if r.Next == Complete || r.Next == Abort {
				continue
			}
			if !ruleTargetOK.MatchString(r.Next) {
				return &ValidationError{Piece: p.Name, Reason: fmt.Sprintf("movement %q: rule next %q is not a valid movement name or terminal token", m.Name, r.Next)}
			}
			if p.MovementByName(r.Next) == nil {
				return &ValidationError{Piece: p.Name, Reason: fmt.Sprintf("movement %q: rule next %q names an undefined movement", m.Name, r.Next)}
			}
		}
	}
	return nil
}
