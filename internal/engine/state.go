// Package engine drives one piece run: the movement-to-movement state
// machine, cycle detection, and health-monitor integration.
// The actual provider call and fan-out mechanics live in internal/movement;
// this package owns only the transitions between movements.
package engine

import (
	"github.com/nrslib/takt/internal/health"
	"github.com/nrslib/takt/internal/movement"
)

// Status is the terminal classification of a piece run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
	StatusFailed    Status = "failed"
)

// PieceState is exclusively owned by the PieceEngine driving a run;
// sub-movement workers only ever see a read-only snapshot of it.
type PieceState struct {
	CurrentMovement   string
	Iteration         int
	MovementIterations map[string]int
	MovementOutputs    map[string]*movement.Result
	UserInputs         map[string]string
	PersonaSessions    map[string]string
	Status             Status

	// history is the sliding movement-name history loop monitors match
	// against. It is capped generously; only the tail ever matters. A
	// CONTINUE judge verdict clears it so the same pattern must repeat
	// afresh before triggering again.
	history []string

	// Health is keyed by movement name: the finding tracker for each
	// movement that reports findings persists across iterations of that
	// same movement.
	Health map[string]*health.Tracker

	// LastHealth is the most recently computed snapshot, if any.
	LastHealth *health.HealthSnapshot
}

// maxHistory bounds the sliding movement-name history; no loop monitor
// pattern longer than this will ever be detected, which comfortably covers
// any realistic piece.
const maxHistory = 64

// NewPieceState initializes a fresh state positioned at initialMovement.
func NewPieceState(initialMovement string) *PieceState {
	return &PieceState{
		CurrentMovement:    initialMovement,
		MovementIterations: map[string]int{},
		MovementOutputs:    map[string]*movement.Result{},
		UserInputs:         map[string]string{},
		PersonaSessions:    map[string]string{},
		Health:             map[string]*health.Tracker{},
		Status:             StatusRunning,
	}
}

func (s *PieceState) recordHistory(movementName string) {
	s.history = append(s.history, movementName)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
}
