package movement

import (
	"regexp"
	"strings"
)

// Part is one team-leader decomposition unit.
type Part struct {
	ID          string
	Title       string
	Instruction string
}

// partHeaderPattern recognizes a part block header of the form
// "### part: <id> | <title>".
var partHeaderPattern = regexp.MustCompile(`(?im)^###\s*part:\s*([^|]+)\|\s*(.+)$`)

// continuationPattern recognizes the team-leader's continuation marker: a
// dedicated status line indicating more parts remain to be planned.
var continuationPattern = regexp.MustCompile(`(?im)^\s*STATUS:\s*MORE_WORK\s*$`)

// ParsePlan extracts the preamble prose, the ordered Part list, and whether
// the leader's plan declares more work remains (the refill continuation
// marker), from a team-leader decomposition response.
func ParsePlan(content string) (preamble string, parts []Part, more bool) {
	more = continuationPattern.MatchString(content)

	locs := partHeaderPattern.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return strings.TrimSpace(content), nil, more
	}

	preamble = strings.TrimSpace(content[:locs[0][0]])

	for i, loc := range locs {
		id := strings.TrimSpace(content[loc[2]:loc[3]])
		title := strings.TrimSpace(content[loc[4]:loc[5]])

		bodyStart := loc[1]
		bodyEnd := len(content)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}
		body := strings.TrimSpace(content[bodyStart:bodyEnd])
		body = continuationPattern.ReplaceAllString(body, "")
		body = strings.TrimSpace(body)

		parts = append(parts, Part{ID: id, Title: title, Instruction: body})
	}

	return preamble, parts, more
}

// sectionHeader matches the external contract pattern tests grep for
//: "^## [^:\n]+: .+$".
var sectionHeader = regexp.MustCompile(`^## [^:\n]+: .+$`)

// FormatPartSection renders one aggregated part section in the contractual
// shape: "## <part-id>: <title>\n<content>".
func FormatPartSection(partID, title, content string) string {
	return "## " + partID + ": " + title + "\n" + content
}
