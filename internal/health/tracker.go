// Package health implements the finding tracker and health monitor: it
// matches finding IDs across iterations, classifies each finding's trend,
// and derives a verdict as a pure function of the tracked state and the
// previous active count.
package health

// FindingStatus is the per-iteration state of one tracked finding.
type FindingStatus string

const (
	StatusNew      FindingStatus = "new"
	StatusPersists FindingStatus = "persists"
	StatusResolved FindingStatus = "resolved"
)

// Trend classifies a finding's trajectory across iterations.
type Trend string

const (
	TrendNew         Trend = "new"
	TrendImproving   Trend = "improving"
	TrendStagnating  Trend = "stagnating"
	TrendLooping     Trend = "looping"
)

// Verdict is the movement-level health classification, in priority order
// from highest to lowest (see Evaluate).
type Verdict string

const (
	VerdictConverging     Verdict = "converging"
	VerdictImproving      Verdict = "improving"
	VerdictNeedsAttention Verdict = "needs_attention"
	VerdictStagnating     Verdict = "stagnating"
	VerdictLooping        Verdict = "looping"
	VerdictMisaligned     Verdict = "misaligned"
)

// FindingRecord is one finding's tracked state.
type FindingRecord struct {
	FindingID           string
	Status              FindingStatus
	ConsecutivePersists int
	RecurrenceCount     int
	Trend               Trend
}

// Snapshot is the result of one Tracker.Update call: the full tracked-record
// set plus the derived verdict.
type Snapshot struct {
	Records map[string]FindingRecord
	Verdict Verdict

	// ResolvedThisUpdate lists the finding IDs that transitioned from
	// active to resolved during this call, for fix_action analytics.
	ResolvedThisUpdate []string
}

// Tracker holds cross-iteration finding state for one movement.
type Tracker struct {
	records         map[string]*FindingRecord
	prevActiveCount int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{records: map[string]*FindingRecord{}}
}

// Update diffs activeIDs (the finding IDs present in the current iteration's
// output) against tracked state, updates each record in place, and returns
// the resulting Snapshot. phaseError, when true, forces at least
// needs_attention regardless of finding counts.
func (t *Tracker) Update(activeIDs []string, phaseError bool) Snapshot {
	active := make(map[string]bool, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = true
	}

	for id := range active {
		rec, tracked := t.records[id]
		if !tracked {
			t.records[id] = &FindingRecord{FindingID: id, Status: StatusNew, ConsecutivePersists: 1, Trend: TrendNew}
			continue
		}
		if rec.Status == StatusResolved {
			rec.RecurrenceCount++
			rec.Status = StatusPersists
			rec.ConsecutivePersists = 1
			if rec.RecurrenceCount >= 2 {
				rec.Trend = TrendLooping
			} else {
				rec.Trend = TrendNew
			}
			continue
		}
		rec.Status = StatusPersists
		rec.ConsecutivePersists++
		if rec.ConsecutivePersists >= 3 {
			rec.Trend = TrendStagnating
		}
	}

	var resolvedThisUpdate []string
	for id, rec := range t.records {
		if active[id] {
			continue
		}
		if rec.Status != StatusResolved {
			rec.Status = StatusResolved
			rec.Trend = TrendImproving
			resolvedThisUpdate = append(resolvedThisUpdate, id)
		}
	}

	result := make(map[string]FindingRecord, len(t.records))
	for id, rec := range t.records {
		result[id] = *rec
	}

	verdict := evaluate(result, len(activeIDs), t.prevActiveCount, phaseError)
	t.prevActiveCount = len(activeIDs)

	return Snapshot{Records: result, Verdict: verdict, ResolvedThisUpdate: resolvedThisUpdate}
}

// evaluate computes the verdict as a pure function of the current record
// set, the current and previous active-finding counts, and whether a phase
// error occurred this iteration. Priority (highest wins):
// looping > stagnating > needs_attention > improving > converging.
// misaligned is never produced here — it is applied as an upgrade by
// ApplyMisalignment, since it depends on a secondary LLM call outside the
// pure finding-diff logic.
func evaluate(records map[string]FindingRecord, activeCount, prevActiveCount int, phaseError bool) Verdict {
	var looping, stagnating bool
	var anyResolved bool
	for _, rec := range records {
		if rec.RecurrenceCount >= 2 {
			looping = true
		}
		if rec.ConsecutivePersists >= 3 {
			stagnating = true
		}
		if rec.Status == StatusResolved {
			anyResolved = true
		}
	}

	switch {
	case looping:
		return VerdictLooping
	case stagnating:
		return VerdictStagnating
	case phaseError || activeCount > prevActiveCount:
		return VerdictNeedsAttention
	case activeCount == 0:
		return VerdictConverging
	case anyResolved && activeCount <= prevActiveCount:
		return VerdictImproving
	default:
		return VerdictConverging
	}
}

// ApplyMisalignment upgrades a verdict to misaligned when a secondary
// analysis reports a findings/fixes mismatch, unless the verdict is already
// looping or stagnating — those never downgrade.
func ApplyMisalignment(v Verdict, misaligned bool) Verdict {
	if !misaligned {
		return v
	}
	if v == VerdictLooping || v == VerdictStagnating {
		return v
	}
	return VerdictMisaligned
}
