package sessionlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewRunID generates a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Path returns the session log path for a run under the given project's
// .takt directory: PROJECT/.takt/runs/<run-id>/logs/<run-id>.jsonl.
func Path(projectTaktDir, runID string) string {
	return filepath.Join(projectTaktDir, "runs", runID, "logs", runID+".jsonl")
}

// Writer appends Records to a single run's log file. It is safe for
// concurrent use: parallel and team-leader sub-movements may each hold a
// reference to the same Writer and append independently, and writes never
// interleave partial lines because each Write call serializes a complete
// record before taking the lock.
type Writer struct {
	mu   sync.Mutex
	file *os.File
}

// Open creates (or appends to, if one somehow already exists) the log file
// at path, creating parent directories as needed.
func Open(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating session log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening session log %s: %w", path, err)
	}
	return &Writer{file: f}, nil
}

// Write appends one record as a single JSON line. Timestamp defaults to now
// when zero.
func (w *Writer) Write(r Record) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	line, err := marshalRecord(r)
	if err != nil {
		return fmt.Errorf("encoding session log record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing session log record: %w", err)
	}
	return w.file.Sync()
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func marshalRecord(r Record) ([]byte, error) {
	base, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}

	var merged map[string]any
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// ReadAll reads every record in a session log file, in file order.
func ReadAll(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []Record
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("parsing session log line: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}

// FindFirstPieceStart scans files (in the given order) and returns the path
// of the first whose first record has type "piece_start", matching the
// lookup strategy says tests rely on.
func FindFirstPieceStart(paths []string) (string, error) {
	for _, p := range paths {
		records, err := ReadAll(p)
		if err != nil || len(records) == 0 {
			continue
		}
		if records[0].Type == TypePieceStart {
			return p, nil
		}
	}
	return "", fmt.Errorf("no session log among %d candidates starts with a %s record", len(paths), TypePieceStart)
}
