package analytics

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Purge deletes event files strictly older than now − retentionDays,
// keeping the file at the cutoff date itself. It is idempotent: files
// already removed or never created are simply absent from the result.
func Purge(userHome string, retentionDays int, now time.Time) ([]string, error) {
	dir := EventsDir(userHome)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cutoff := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, -retentionDays)

	var removed []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		dateStr := strings.TrimSuffix(name, ".jsonl")
		if dateStr == name {
			continue // not a .jsonl event file
		}
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue // not a dated event file
		}
		if day.Before(cutoff) {
			path := filepath.Join(dir, name)
			if err := os.Remove(path); err != nil {
				return removed, err
			}
			removed = append(removed, path)
		}
	}
	return removed, nil
}
