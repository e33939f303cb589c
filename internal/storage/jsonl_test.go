package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type event struct {
	Seq     int    `json:"seq"`
	Message string `json:"message"`
}

func TestWriterAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	w, err := OpenWriter(path)
	if err != nil {
		t.Fatalf("OpenWriter() error = %v", err)
	}
	for i, msg := range []string{"Starting processing...", "Processing finished."} {
		if err := w.Write(event{Seq: i, Message: msg}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening appends instead of truncating.
	w, err = OpenWriter(path)
	if err != nil {
		t.Fatalf("OpenWriter() reopen error = %v", err)
	}
	if err := w.Write(event{Seq: 2, Message: "ZIP export finished."}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	w.Close()

	got, err := ReadAll[event](path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ReadAll() returned %d events, want 3", len(got))
	}
	if got[2].Seq != 2 || got[2].Message != "ZIP export finished." {
		t.Errorf("last event = %+v", got[2])
	}

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "\n"); n != 3 {
		t.Errorf("file has %d lines, want 3", n)
	}
}

func TestReadAll_Missing(t *testing.T) {
	got, err := ReadAll[event](filepath.Join(t.TempDir(), "missing.jsonl"))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if got != nil {
		t.Errorf("ReadAll() = %v, want nil", got)
	}
}

func TestReadAll_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	content := "{\"seq\":0,\"message\":\"a\"}\n\n{\"seq\":1,\"message\":\"b\"}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadAll[event](path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ReadAll() returned %d events, want 2", len(got))
	}
}

func TestReadAll_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	if err := os.WriteFile(path, []byte("{\"seq\":0}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadAll[event](path)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadAll() error = %v, want line 2 parse error", err)
	}
}
