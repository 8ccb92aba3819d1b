package movement

import (
	"context"
	"fmt"
	"sync"

	"github.com/nrslib/takt/internal/agent"
	"github.com/nrslib/takt/internal/piece"
)

// InvokeRequest is everything the engine needs from an invocation
// collaborator: persona/permission resolution, binary lookup, session
// continuation, and env/secrets wiring are all the caller's concern (see
// internal/engine), so the movement engine only ever describes WHAT it
// needs, never HOW to resolve it.
type InvokeRequest struct {
	Persona string

	// Movement is the movement this invocation belongs to, carrying its
	// own provider/model override (if any) into the caller's resolution
	// chain. Nil for auxiliary calls that aren't tied to a specific
	// movement (team-leader decomposition, loop-judge).
	Movement *piece.Movement

	// PermissionOverride, when non-empty, forces the permission mode
	// regardless of the movement's configured mode. Used for the
	// team-leader decomposition call and loop-judge calls, which are
	// report/status-judgment auxiliary calls.
	PermissionOverride piece.PermissionMode

	AllowedToolsOverride []string
	Prompt               string
}

// Invoke performs one provider call for req and returns its response.
type Invoke func(ctx context.Context, req InvokeRequest) (*agent.Response, error)

// DefaultMaxRefillMultiplier bounds the cumulative number of parts a
// team-leader may request across all refills, relative to MaxParts, to stop
// a runaway decomposition loop.
const DefaultMaxRefillMultiplier = 4

// Engine runs a single movement: prompt rendering, provider invocation
// (directly, or fanned out across static parallel sub-movements or a
// team-leader worker pool), and outcome detection.
type Engine struct {
	Invoke Invoke

	// MaxRefillMultiplier overrides DefaultMaxRefillMultiplier when > 0.
	MaxRefillMultiplier int
}

// NewEngine builds an Engine around the given Invoke collaborator.
func NewEngine(invoke Invoke) *Engine {
	return &Engine{Invoke: invoke}
}

// Run executes m and returns its aggregated Result.
func (e *Engine) Run(ctx context.Context, p *piece.Piece, m *piece.Movement, pctx PromptContext) (*Result, error) {
	switch {
	case m.TeamLeader != nil:
		return e.runTeamLeader(ctx, m, pctx)
	case len(m.Parallel) > 0:
		return e.runParallel(ctx, p, m, pctx)
	default:
		return e.runSingle(ctx, m, pctx)
	}
}

func (e *Engine) runSingle(ctx context.Context, m *piece.Movement, pctx PromptContext) (*Result, error) {
	prompt := RenderPrompt(m.InstructionTemplate, pctx)
	resp, err := e.Invoke(ctx, InvokeRequest{Persona: m.Persona, Movement: m, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("movement %q: %w", m.Name, err)
	}
	idx := DetectOutcome(resp.Content, m.Rules)
	return &Result{
		MovementName:     m.Name,
		Content:          resp.Content,
		MatchedRuleIndex: idx,
		Response:         resp,
	}, nil
}

// runParallel fans out one invocation per statically-declared sub-movement,
// runs them concurrently, and evaluates the parent's rules against the
// aggregate of their matched conditions, per its all()/any() rule kind.
func (e *Engine) runParallel(ctx context.Context, p *piece.Piece, m *piece.Movement, pctx PromptContext) (*Result, error) {
	subs := make([]*piece.Movement, len(m.Parallel))
	for i, name := range m.Parallel {
		sub := p.MovementByName(name)
		if sub == nil {
			return nil, fmt.Errorf("movement %q: parallel sub-movement %q not found", m.Name, name)
		}
		subs[i] = sub
	}

	results := make([]*Result, len(subs))
	errs := make([]error, len(subs))
	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub *piece.Movement) {
			defer wg.Done()
			r, err := e.runSingle(ctx, sub, pctx)
			results[i] = r
			errs[i] = err
		}(i, sub)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("movement %q: sub-movement %q: %w", m.Name, subs[i].Name, err)
		}
	}

	conditions := make([]string, len(results))
	var content string
	for i, r := range results {
		conditions[i] = MatchedCondition(subs[i].Rules, r.MatchedRuleIndex)
		content += fmt.Sprintf("## %s\n%s\n\n", subs[i].Name, r.Content)
	}

	matchedIdx := -1
	for i, rule := range m.Rules {
		kind, tags, ok := ParseAggregate(rule.Condition)
		if !ok {
			continue
		}
		if EvaluateAggregate(kind, tags, conditions) {
			matchedIdx = i
			break
		}
	}

	return &Result{
		MovementName:      m.Name,
		Content:            content,
		MatchedConditions:  conditions,
		MatchedRuleIndex:   matchedIdx,
		SubResults:         results,
	}, nil
}

// runTeamLeader drives the dynamic worker-pool fan-out: the leader persona
// decomposes the task into parts, a bounded pool of PartPersona workers
// executes them, and the leader is given a chance to refill once completed
// parts cross RefillThreshold, up to a cumulative hard cap on total parts
//.
func (e *Engine) runTeamLeader(ctx context.Context, m *piece.Movement, pctx PromptContext) (*Result, error) {
	tl := m.TeamLeader
	multiplier := e.MaxRefillMultiplier
	if multiplier <= 0 {
		multiplier = DefaultMaxRefillMultiplier
	}
	hardCap := tl.MaxParts * multiplier

	decompositionPrompt := RenderPrompt(m.InstructionTemplate, pctx)
	leaderResp, err := e.Invoke(ctx, InvokeRequest{
		Persona:            m.Persona,
		PermissionOverride: piece.PermissionReadonly,
		Prompt:             decompositionPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("movement %q: decomposition: %w", m.Name, err)
	}

	preamble, pending, more := ParsePlan(leaderResp.Content)

	var done []*Result
	var partOrder []Part
	seen := map[string]bool{}

	for {
		batch := pending
		pending = nil

		if len(batch) > 0 {
			batchResults, err := e.runParts(ctx, tl, batch)
			if err != nil {
				return nil, fmt.Errorf("movement %q: %w", m.Name, err)
			}
			for i, part := range batch {
				if seen[part.ID] {
					continue
				}
				seen[part.ID] = true
				partOrder = append(partOrder, part)
				done = append(done, batchResults[i])
			}
		}

		if !more {
			break
		}
		if len(done) >= hardCap {
			break
		}
		if len(done) < tl.EffectiveRefillThreshold() {
			break
		}

		refillResp, err := e.Invoke(ctx, InvokeRequest{
			Persona:            m.Persona,
			PermissionOverride: piece.PermissionReadonly,
			Prompt:             refillPrompt(pctx, partOrder),
		})
		if err != nil {
			return nil, fmt.Errorf("movement %q: refill: %w", m.Name, err)
		}
		var refillPreamble string
		refillPreamble, pending, more = ParsePlan(refillResp.Content)
		_ = refillPreamble

		remaining := hardCap - len(done)
		if len(pending) > remaining {
			pending = pending[:remaining]
			more = false
		}
	}

	content := "## decomposition\n" + preamble + "\n\n"
	for i, part := range partOrder {
		content += FormatPartSection(part.ID, part.Title, done[i].Content) + "\n\n"
	}

	idx := DetectOutcome(content, m.Rules)
	return &Result{
		MovementName:     m.Name,
		Content:          content,
		MatchedRuleIndex: idx,
		Response:         leaderResp,
		SubResults:       done,
		Refills:          len(partOrder) - len(batchInitial(partOrder, tl.MaxParts)),
	}, nil
}

// runParts executes one batch of parts through a pool bounded at tl.MaxParts
// concurrent workers, preserving the caller's part order in the result. A
// part that fails cancels the pool's context, so siblings still in flight
// are aborted, and the first such error is returned to the caller.
func (e *Engine) runParts(ctx context.Context, tl *piece.TeamLeader, parts []Part) ([]*Result, error) {
	results := make([]*Result, len(parts))
	sem := make(chan struct{}, tl.MaxParts)
	var wg sync.WaitGroup

	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var firstErr error
	var firstErrPart string

	for i, part := range parts {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, part Part) {
			defer wg.Done()
			defer func() { <-sem }()

			req := InvokeRequest{
				Persona:              tl.PartPersona,
				AllowedToolsOverride: tl.PartAllowedTools,
				Prompt:               part.Instruction,
			}
			if !tl.PartEdit {
				req.PermissionOverride = piece.PermissionReadonly
			} else if tl.PartPermission != "" {
				req.PermissionOverride = tl.PartPermission
			}

			resp, err := e.Invoke(poolCtx, req)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					firstErrPart = part.ID
				}
				mu.Unlock()
				cancel()
				return
			}
			results[i] = &Result{MovementName: part.ID, Content: resp.Content, MatchedRuleIndex: -1, Response: resp}
		}(i, part)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("part %q: %w", firstErrPart, firstErr)
	}
	return results, nil
}

// refillPrompt asks the leader for additional parts, given the parts
// already planned so it doesn't repeat them.
func refillPrompt(pctx PromptContext, done []Part) string {
	titles := ""
	for _, part := range done {
		titles += fmt.Sprintf("- %s: %s\n", part.ID, part.Title)
	}
	return RenderPrompt(
		"Continue the decomposition for {task}. Parts already planned:\n"+titles+
			"\nPlan only the remaining parts, using the same part format.",
		pctx,
	)
}

// batchInitial is a small helper so Refills can be reported as "parts beyond
// the first batch" without threading an extra counter through the loop.
func batchInitial(all []Part, maxParts int) []Part {
	if len(all) <= maxParts {
		return all
	}
	return all[:maxParts]
}
