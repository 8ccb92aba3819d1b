package movement

import (
	"regexp"
	"strings"
)

// aggregatePattern parses "all(TAG)", "all([T1, T2])", "any(TAG)", and
// "any([T1, T2])" rule conditions.
var aggregatePattern = regexp.MustCompile(`^(all|any)\(\s*\[?([^\])]*)\]?\s*\)$`)

// ParseAggregate reports whether condition is an aggregate marker and, if
// so, its kind ("all"/"any") and the listed tags.
func ParseAggregate(condition string) (kind string, tags []string, ok bool) {
	m := aggregatePattern.FindStringSubmatch(strings.TrimSpace(condition))
	if m == nil {
		return "", nil, false
	}
	for _, part := range strings.Split(m[2], ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, part)
		}
	}
	return m[1], tags, true
}

// EvaluateAggregate decides whether an aggregate rule matches, given the
// matched condition text of each sub-movement (empty string when a
// sub-movement had no matching rule). When no sub-movement matched
// anything, the aggregate never matches
func EvaluateAggregate(kind string, tags []string, subConditions []string) bool {
	anyMatched := false
	for _, c := range subConditions {
		if c != "" {
			anyMatched = true
			break
		}
	}
	if !anyMatched || len(tags) == 0 {
		return false
	}

	switch kind {
	case "all":
		if len(tags) == 1 {
			for _, c := range subConditions {
				if c != tags[0] {
					return false
				}
			}
			return true
		}
		if len(tags) != len(subConditions) {
			return false
		}
		for i, c := range subConditions {
			if c != tags[i] {
				return false
			}
		}
		return true
	case "any":
		tagSet := make(map[string]bool, len(tags))
		for _, t := range tags {
			tagSet[t] = true
		}
		for _, c := range subConditions {
			if c != "" && tagSet[c] {
				return true
			}
		}
		return false
	default:
		return false
	}
}
