package movement

import (
	"testing"

	"github.com/nrslib/takt/internal/piece"
)

func TestDetectOutcome_StatusLine(t *testing.T) {
	rules := []piece.Rule{
		{Condition: "PASS", Next: piece.Complete},
		{Condition: "FAIL", Next: "fix"},
	}
	idx := DetectOutcome("did some work\nSTATUS: fail\nmore notes", rules)
	if idx != 1 {
		t.Errorf("idx = %d, want 1", idx)
	}
}

func TestDetectOutcome_LastStatusLineWins(t *testing.T) {
	rules := []piece.Rule{{Condition: "PASS"}, {Condition: "FAIL"}}
	idx := DetectOutcome("STATUS: PASS\nreconsidering...\nSTATUS: FAIL", rules)
	if idx != 1 {
		t.Errorf("idx = %d, want 1 (last status line wins)", idx)
	}
}

func TestDetectOutcome_FallsBackToRegexWhenNoStatusLine(t *testing.T) {
	rules := []piece.Rule{{Condition: `\btests pass\b`, Next: piece.Complete}}
	idx := DetectOutcome("ran the suite, tests pass cleanly", rules)
	if idx != 0 {
		t.Errorf("idx = %d, want 0", idx)
	}
}

func TestDetectOutcome_NoMatch(t *testing.T) {
	rules := []piece.Rule{{Condition: "PASS"}}
	if idx := DetectOutcome("nothing relevant here", rules); idx != -1 {
		t.Errorf("idx = %d, want -1", idx)
	}
}
