package slackfmt

import (
	"strings"
	"testing"
)

func TestFormatRunSummary(t *testing.T) {
	out := FormatRunSummary(RunSummary{Piece: "review-fix", Task: "fix the bug", Status: "completed", Iterations: 3})
	if !strings.Contains(out, "*review-fix*") || !strings.Contains(out, "`fix the bug`") || !strings.Contains(out, "*completed*") {
		t.Errorf("output missing expected markup: %s", out)
	}
}

func TestFormatFindingsSummary_Empty(t *testing.T) {
	out := FormatFindingsSummary("7d", nil)
	if !strings.Contains(out, "no findings") {
		t.Errorf("output = %q, want a no-findings message", out)
	}
}

func TestFormatFindingsSummary_ListsCounts(t *testing.T) {
	out := FormatFindingsSummary("7d", []FindingCount{{ID: "SEC-001", Count: 3}})
	if !strings.Contains(out, "`SEC-001`") || !strings.Contains(out, "×3") {
		t.Errorf("output = %q", out)
	}
}

func TestFormatFixActionSummary(t *testing.T) {
	out := FormatFixActionSummary(FixActionSummary{Fixed: 4, Rebutted: 1})
	if !strings.Contains(out, "4 fixed") || !strings.Contains(out, "1 rebutted") {
		t.Errorf("output = %q", out)
	}
}
