// Package analytics writes per-day JSONL usage events under
// USER_HOME/.takt/analytics/events and purges them on a retention schedule.
package analytics

import "time"

// EventType names one of the fixed analytics event kinds.
type EventType string

const (
	EventMovementResult EventType = "movement_result"
	EventReviewFinding  EventType = "review_finding"
	EventFixAction      EventType = "fix_action"
)

// FixActionKind is the action taken on a review finding.
type FixActionKind string

const (
	FixActionFixed    FixActionKind = "fixed"
	FixActionRebutted FixActionKind = "rebutted"
)

// Record is one analytics event: a JSON object with at least type and
// timestamp, plus kind-specific fields merged in from Fields.
type Record struct {
	Type      EventType
	Timestamp time.Time
	Fields    map[string]any
}

// MovementResult records one movement's outcome.
func MovementResult(ts time.Time, pieceName, movementName, outcome string) Record {
	return Record{
		Type:      EventMovementResult,
		Timestamp: ts,
		Fields: map[string]any{
			"piece":    pieceName,
			"movement": movementName,
			"outcome":  outcome,
		},
	}
}

// ReviewFinding records one finding ID surfaced by a review movement.
func ReviewFinding(ts time.Time, pieceName, findingID string) Record {
	return Record{
		Type:      EventReviewFinding,
		Timestamp: ts,
		Fields: map[string]any{
			"piece":      pieceName,
			"finding_id": findingID,
		},
	}
}

// FixAction records the disposition of a finding in a later fix movement.
func FixAction(ts time.Time, pieceName, findingID string, action FixActionKind) Record {
	return Record{
		Type:      EventFixAction,
		Timestamp: ts,
		Fields: map[string]any{
			"piece":      pieceName,
			"finding_id": findingID,
			"action":     string(action),
		},
	}
}
