package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nrslib/takt/internal/agent"
	"github.com/nrslib/takt/internal/analytics"
	"github.com/nrslib/takt/internal/health"
	"github.com/nrslib/takt/internal/movement"
	"github.com/nrslib/takt/internal/piece"
	"github.com/nrslib/takt/internal/sessionlog"
)

// JudgeFunc invokes the loop judge persona with the accumulated movement
// history for context and returns its verdict.
type JudgeFunc func(ctx context.Context, monitorIndex int, history []string) (JudgeVerdict, error)

// PieceEngine drives one piece run to completion: the tick() state machine,
// cycle detection via loopMonitors, and health-monitor bookkeeping for
// movements that report findings.
type PieceEngine struct {
	Piece     *piece.Piece
	State     *PieceState
	Movements *movement.Engine
	Log       *sessionlog.Writer
	Judge     JudgeFunc

	// Analytics is optional; when set, each tick emits a movement_result
	// event; for movements that report findings, a review_finding event
	// per active finding ID and a fix_action event per finding that
	// resolved this tick (action fixed, unless the movement's content
	// carries a REBUTTED: line for that finding ID).
	Analytics *analytics.Writer

	// BasePrompt carries the run-level constants (task, report dir,
	// project root, working directory, language); Tick fills in the
	// per-movement Iteration/StepIteration/PreviousResponse fields.
	BasePrompt movement.PromptContext
}

// NewPieceEngine constructs a PieceEngine positioned at p's initial
// movement.
func NewPieceEngine(p *piece.Piece, movements *movement.Engine, log *sessionlog.Writer, judge JudgeFunc, base movement.PromptContext) *PieceEngine {
	return &PieceEngine{
		Piece:      p,
		State:      NewPieceState(p.InitialMovement),
		Movements:  movements,
		Log:        log,
		Judge:      judge,
		BasePrompt: base,
	}
}

// Run ticks the engine until it reaches a terminal status.
func (e *PieceEngine) Run(ctx context.Context) error {
	first := true
	for e.State.Status == StatusRunning {
		if first {
			if err := e.Log.Write(sessionlog.Record{Type: sessionlog.TypePieceStart}); err != nil {
				return fmt.Errorf("writing piece_start: %w", err)
			}
			first = false
		}
		if err := e.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Tick executes exactly one movement and advances state.
func (e *PieceEngine) Tick(ctx context.Context) error {
	s := e.State
	m := e.Piece.MovementByName(s.CurrentMovement)
	if m == nil {
		return fmt.Errorf("current movement %q not found in piece %q", s.CurrentMovement, e.Piece.Name)
	}

	s.Iteration++
	s.MovementIterations[m.Name]++
	if s.Iteration > e.Piece.MaxMovements {
		return e.abort("Max movements reached")
	}

	if err := e.Log.Write(sessionlog.Record{Type: sessionlog.TypeStepStart, Step: m.Name}); err != nil {
		return fmt.Errorf("writing step_start: %w", err)
	}

	pctx := e.BasePrompt
	pctx.Iteration = s.Iteration
	pctx.StepIteration = s.MovementIterations[m.Name]
	if m.PassPreviousResponse {
		if prev, ok := s.MovementOutputs[m.Name]; ok {
			pctx.PreviousResponse = prev.Content
		}
	}

	result, err := e.Movements.Run(ctx, e.Piece, m, pctx)
	if err != nil {
		if werr := e.Log.Write(sessionlog.Record{Type: sessionlog.TypePieceAbort, Reason: err.Error()}); werr != nil {
			return fmt.Errorf("writing piece_abort after movement error %v: %w", err, werr)
		}
		s.Status = StatusFailed
		return nil
	}

	if err := e.Log.Write(sessionlog.Record{Type: sessionlog.TypeStepComplete, Step: m.Name, Content: result.Content}); err != nil {
		return fmt.Errorf("writing step_complete: %w", err)
	}
	s.MovementOutputs[m.Name] = result
	e.recordAnalytics(m, result)

	if m.ReportsFindings() {
		e.updateHealth(m, result)
	}

	if !result.Matched() {
		return e.abort("No matching rule")
	}
	next := m.Rules[result.MatchedRuleIndex].Next
	if next == piece.Complete {
		return e.complete()
	}
	if next == piece.Abort {
		return e.abort("movement rule aborted")
	}

	s.recordHistory(m.Name)
	s.CurrentMovement = next

	return e.checkLoopMonitors(ctx)
}

func (e *PieceEngine) complete() error {
	if err := e.Log.Write(sessionlog.Record{Type: sessionlog.TypePieceComplete}); err != nil {
		return fmt.Errorf("writing piece_complete: %w", err)
	}
	e.State.Status = StatusCompleted
	return nil
}

func (e *PieceEngine) abort(reason string) error {
	if err := e.Log.Write(sessionlog.Record{Type: sessionlog.TypePieceAbort, Reason: reason}); err != nil {
		return fmt.Errorf("writing piece_abort: %w", err)
	}
	e.State.Status = StatusAborted
	return nil
}

// checkLoopMonitors inserts an out-of-band judge movement when a monitor's
// cycle pattern has repeated at the tail of history.
func (e *PieceEngine) checkLoopMonitors(ctx context.Context) error {
	s := e.State
	idx := detectLoop(s.history, e.Piece.LoopMonitors)
	if idx < 0 {
		return nil
	}

	judgeName := judgeMovementName(idx)
	if err := e.Log.Write(sessionlog.Record{Type: sessionlog.TypeStepStart, Step: judgeName}); err != nil {
		return fmt.Errorf("writing step_start for loop judge: %w", err)
	}

	verdict, err := e.Judge(ctx, idx, append([]string(nil), s.history...))
	if err != nil {
		return fmt.Errorf("loop judge %s: %w", judgeName, err)
	}

	if err := e.Log.Write(sessionlog.Record{Type: sessionlog.TypeStepComplete, Step: judgeName, Content: string(verdict)}); err != nil {
		return fmt.Errorf("writing step_complete for loop judge: %w", err)
	}

	if verdict == JudgeAbort {
		return e.abort("loop_detected")
	}

	// CONTINUE: the cycle is productive. Clear history so the pattern
	// must repeat afresh before triggering again; the state machine
	// otherwise proceeds normally from the already-applied transition.
	s.history = nil
	return nil
}

func (e *PieceEngine) recordAnalytics(m *piece.Movement, result *movement.Result) {
	if e.Analytics == nil {
		return
	}
	now := time.Now().UTC()
	outcome := "unmatched"
	if result.Matched() {
		outcome = strings.Join(result.MatchedConditions, ",")
	}
	_ = e.Analytics.Write(analytics.MovementResult(now, e.Piece.Name, m.Name, outcome))

	if m.ReportsFindings() {
		for _, id := range health.ExtractFindingIDs(result.Content) {
			_ = e.Analytics.Write(analytics.ReviewFinding(now, e.Piece.Name, id))
		}
	}
}

func (e *PieceEngine) updateHealth(m *piece.Movement, result *movement.Result) {
	tracker, ok := e.State.Health[m.Name]
	if !ok {
		tracker = health.NewTracker()
		e.State.Health[m.Name] = tracker
	}
	ids := health.ExtractFindingIDs(result.Content)
	phaseError := result.Response != nil && result.Response.Status == agent.StatusError
	snapshot := tracker.Update(ids, phaseError)
	e.State.LastHealth = &health.HealthSnapshot{
		MovementName: m.Name,
		Iteration:    e.State.Iteration,
		MaxMovements: e.Piece.MaxMovements,
		Findings:     snapshot.Records,
		Verdict:      snapshot.Verdict,
	}

	if e.Analytics == nil || len(snapshot.ResolvedThisUpdate) == 0 {
		return
	}
	now := time.Now().UTC()
	rebutted := health.ExtractRebuttedFindingIDs(result.Content)
	isRebutted := make(map[string]bool, len(rebutted))
	for _, id := range rebutted {
		isRebutted[id] = true
	}
	for _, id := range snapshot.ResolvedThisUpdate {
		action := analytics.FixActionFixed
		if isRebutted[id] {
			action = analytics.FixActionRebutted
		}
		_ = e.Analytics.Write(analytics.FixAction(now, e.Piece.Name, id, action))
	}
}
