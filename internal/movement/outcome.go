package movement

import (
	"regexp"
	"strings"

	"github.com/nrslib/takt/internal/piece"
)

// statusLinePattern finds a dedicated "STATUS: <tag>" line anywhere in the
// document, case-insensitively.
var statusLinePattern = regexp.MustCompile(`(?im)^\s*STATUS:\s*(.+?)\s*$`)

// DetectOutcome matches content against rules in order and returns the
// index of the first matching rule, or -1 when none match. A dedicated
// status line is checked first (case-insensitive substring against the
// extracted tag); rules are also tried as a regex against the whole
// document, so pieces that don't emit a status line still work.
func DetectOutcome(content string, rules []piece.Rule) int {
	tag, hasStatusLine := extractStatusTag(content)

	for i, r := range rules {
		if r.Condition == "" {
			continue
		}
		if hasStatusLine && strings.Contains(strings.ToUpper(tag), strings.ToUpper(r.Condition)) {
			return i
		}
	}

	for i, r := range rules {
		if r.Condition == "" {
			continue
		}
		re, err := regexp.Compile("(?im)" + r.Condition)
		if err != nil {
			continue
		}
		if re.MatchString(content) {
			return i
		}
	}

	return -1
}

// extractStatusTag returns the content of the last "STATUS: ..." line in
// the document (agents sometimes restate status; the final line wins) and
// whether one was found at all.
func extractStatusTag(content string) (string, bool) {
	matches := statusLinePattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1][1], true
}

// MatchedCondition returns the condition text of the rule at idx, or "" if
// idx is out of range (no match).
func MatchedCondition(rules []piece.Rule, idx int) string {
	if idx < 0 || idx >= len(rules) {
		return ""
	}
	return rules[idx].Condition
}
