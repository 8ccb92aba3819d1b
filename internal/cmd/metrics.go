package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/analytics"
	"github.com/nrslib/takt/internal/slackfmt"
	"github.com/nrslib/takt/internal/style"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Aggregate and manage analytics events",
}

var flagMetricsSince string

var metricsReviewCmd = &cobra.Command{
	Use:   "review",
	Args:  cobra.NoArgs,
	RunE:  runMetricsReview,
}

var metricsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Args:  cobra.NoArgs,
	RunE:  runMetricsPurge,
}

func init() {
	metricsReviewCmd.Flags().StringVar(&flagMetricsSince, "since", "30d", "aggregation window, e.g. 7d")
	metricsCmd.AddCommand(metricsReviewCmd, metricsPurgeCmd)
	rootCmd.AddCommand(metricsCmd)
}

func runMetricsReview(c *cobra.Command, args []string) error {
	days, err := parseSinceDays(flagMetricsSince)
	if err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	counts := make(map[string]int)
	var fixActions slackfmt.FixActionSummary
	dir := analytics.EventsDir(home)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			entries = nil
		} else {
			return err
		}
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		day, err := time.Parse("2006-01-02", strings.TrimSuffix(e.Name(), ".jsonl"))
		if err == nil && day.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := tallyReviewFindings(path, counts); err != nil {
			return err
		}
		if err := tallyFixActions(path, &fixActions); err != nil {
			return err
		}
	}

	var findings []slackfmt.FindingCount
	for id, n := range counts {
		findings = append(findings, slackfmt.FindingCount{ID: id, Count: n})
	}
	sort.Slice(findings, func(i, j int) bool { return findings[i].ID < findings[j].ID })

	fmt.Println(slackfmt.FormatFindingsSummary(flagMetricsSince, findings))
	fmt.Println(slackfmt.FormatFixActionSummary(fixActions))
	return nil
}

func tallyReviewFindings(path string, counts map[string]int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec struct {
			Type      string `json:"type"`
			FindingID string `json:"finding_id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if rec.Type == string(analytics.EventReviewFinding) && rec.FindingID != "" {
			counts[rec.FindingID]++
		}
	}
	return scanner.Err()
}

func tallyFixActions(path string, summary *slackfmt.FixActionSummary) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec struct {
			Type   string `json:"type"`
			Action string `json:"action"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if rec.Type != string(analytics.EventFixAction) {
			continue
		}
		switch analytics.FixActionKind(rec.Action) {
		case analytics.FixActionFixed:
			summary.Fixed++
		case analytics.FixActionRebutted:
			summary.Rebutted++
		}
	}
	return scanner.Err()
}

func parseSinceDays(since string) (int, error) {
	trimmed := strings.TrimSuffix(since, "d")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid --since %q, expected e.g. 30d", since)
	}
	return n, nil
}

func runMetricsPurge(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	removed, err := analytics.Purge(home, a.Config.AnalyticsRetentionDays, time.Now())
	if err != nil {
		return err
	}
	style.PrintSuccess("purged %d analytics file(s)", len(removed))
	return nil
}
