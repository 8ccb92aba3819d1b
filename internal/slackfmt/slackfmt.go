// Package slackfmt renders run and metrics summaries as Slack mrkdwn text.
// Webhook delivery is out of scope; this package only builds
// the message body that `run`/`metrics review` print or could pipe to one.
package slackfmt

import (
	"fmt"
	"strings"
)

// RunSummary describes one piece run's outcome for a chat-formatted recap.
type RunSummary struct {
	Piece    string
	Task     string
	Status   string // completed | aborted | failed
	Iterations int
}

// FormatRunSummary renders a single-line bolded status plus a detail line,
// in Slack's mrkdwn dialect (`*bold*`, `` `code` ``).
func FormatRunSummary(s RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* — `%s` finished *%s* after %d iteration(s)\n", s.Piece, s.Task, s.Status, s.Iterations)
	return b.String()
}

// FindingCount pairs a finding ID with how many times it was seen across
// the aggregated window.
type FindingCount struct {
	ID    string
	Count int
}

// FormatFindingsSummary renders a bulleted `metrics review` recap. An empty
// findings slice renders a one-line "no findings" message.
func FormatFindingsSummary(since string, findings []FindingCount) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Review findings since %s*\n", since)
	if len(findings) == 0 {
		b.WriteString("_no findings recorded_\n")
		return b.String()
	}
	for _, f := range findings {
		fmt.Fprintf(&b, "• `%s` ×%d\n", f.ID, f.Count)
	}
	return b.String()
}

// FixActionSummary tallies how findings resolved across the aggregated
// window: addressed in the working copy versus rebutted as false positives.
type FixActionSummary struct {
	Fixed    int
	Rebutted int
}

// FormatFixActionSummary renders the fixed/rebutted tally appended to a
// `metrics review` recap.
func FormatFixActionSummary(s FixActionSummary) string {
	return fmt.Sprintf("*Fix actions* — %d fixed, %d rebutted\n", s.Fixed, s.Rebutted)
}
