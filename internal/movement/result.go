package movement

import "github.com/nrslib/takt/internal/agent"

// Result is the outcome of running one movement, including any fan-out
// sub-results (static parallel sub-movements or team-leader parts).
type Result struct {
	MovementName      string
	Content           string
	MatchedConditions []string
	MatchedRuleIndex  int
	Response          *agent.Response
	SubResults        []*Result
	Refills           int
}

// Matched reports whether a rule matched for this result.
func (r *Result) Matched() bool {
	return r.MatchedRuleIndex >= 0
}
