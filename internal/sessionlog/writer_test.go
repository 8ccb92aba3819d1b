package sessionlog

import (
	"path/filepath"
	"testing"
)

func TestWriteAndReadAll_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.jsonl")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer w.Close()

	if err := w.Write(Record{Type: TypePieceStart}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(Record{Type: TypeStepComplete, Step: "step-1"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(Record{Type: TypePieceComplete}); err != nil {
		t.Fatal(err)
	}

	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if records[0].Type != TypePieceStart || records[len(records)-1].Type != TypePieceComplete {
		t.Errorf("first/last record types = %s/%s", records[0].Type, records[len(records)-1].Type)
	}
	if records[1].Step != "step-1" {
		t.Errorf("Step = %q, want step-1", records[1].Step)
	}
}

func TestWrite_ExtraFieldsMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.jsonl")
	w, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Write(Record{Type: "movement_parallel", Extra: map[string]any{"subCount": 3}}); err != nil {
		t.Fatal(err)
	}
	data, err := ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(data))
	}
}

func TestFindFirstPieceStart(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(dir, "other.jsonl")
	target := filepath.Join(dir, "target.jsonl")

	wOther, _ := Open(other)
	wOther.Write(Record{Type: TypeStepComplete})
	wOther.Close()

	wTarget, _ := Open(target)
	wTarget.Write(Record{Type: TypePieceStart})
	wTarget.Close()

	found, err := FindFirstPieceStart([]string{other, target})
	if err != nil {
		t.Fatalf("FindFirstPieceStart() error = %v", err)
	}
	if found != target {
		t.Errorf("found = %q, want %q", found, target)
	}
}
