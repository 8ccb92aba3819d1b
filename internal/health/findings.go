package health

import (
	"regexp"

	"github.com/nrslib/takt/internal/util"
)

// findingIDPattern extracts short uppercase finding IDs like "SEC-001" or
// "PERF-MEMLEAK-2" from free-form agent text
var findingIDPattern = regexp.MustCompile(`[A-Z]{2,}-[A-Z0-9-]+`)

// ExtractFindingIDs scans text for finding IDs, deduplicating within the
// same extraction.
func ExtractFindingIDs(text string) []string {
	matches := findingIDPattern.FindAllString(text, -1)
	return util.DedupeStrings(matches)
}

// rebuttedLinePattern finds a dedicated "REBUTTED: <id>" line, the marker a
// fix movement uses to say a finding is a false positive rather than
// addressed in the working copy.
var rebuttedLinePattern = regexp.MustCompile(`(?im)^\s*REBUTTED:\s*([A-Z0-9-]+)\s*$`)

// ExtractRebuttedFindingIDs scans text for REBUTTED: lines and returns the
// finding IDs they name, deduplicated.
func ExtractRebuttedFindingIDs(text string) []string {
	var ids []string
	for _, m := range rebuttedLinePattern.FindAllStringSubmatch(text, -1) {
		ids = append(ids, m[1])
	}
	return util.DedupeStrings(ids)
}

// HealthSnapshot is captured after each movement that reports findings.
type HealthSnapshot struct {
	MovementName string
	Iteration    int
	MaxMovements int
	Findings     map[string]FindingRecord
	Verdict      Verdict
}
