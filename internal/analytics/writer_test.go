package analytics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriter_WritesToPerDayFile(t *testing.T) {
	home := t.TempDir()
	w := NewWriter(home)
	ts := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	if err := w.Write(MovementResult(ts, "review-fix", "review", "FAIL")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	path := filepath.Join(EventsDir(home), "2026-05-10.jsonl")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading event file: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data[:len(data)-1], &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["type"] != "movement_result" || decoded["outcome"] != "FAIL" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestWriter_AppendsMultipleEventsSameDay(t *testing.T) {
	home := t.TempDir()
	w := NewWriter(home)
	ts := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	if err := w.Write(ReviewFinding(ts, "review-fix", "SEC-001")); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(FixAction(ts, "review-fix", "SEC-001", FixActionFixed)); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(EventsDir(home), "2026-05-10.jsonl")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("lines = %d, want 2", lines)
	}
}

func TestWriter_DefaultsZeroTimestampToNow(t *testing.T) {
	home := t.TempDir()
	w := NewWriter(home)
	if err := w.Write(Record{Type: EventMovementResult, Fields: map[string]any{"outcome": "DONE"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	if _, err := os.Stat(filepath.Join(EventsDir(home), today+".jsonl")); err != nil {
		t.Errorf("expected file for today's date: %v", err)
	}
}
