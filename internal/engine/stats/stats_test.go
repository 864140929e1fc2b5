package stats

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
)

func TestRecorderWritesFrameLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.jsonl")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	frames := []Frame{
		{Frame: 0, Quads: 1, Drawable: 1, CameraAlt: 5000, TilesCreated: 3, TilesUsed: 3, SlotsFree: 13, FrameMillis: 1.5},
		{Frame: 1, Quads: 21, Drawable: 16, CameraAlt: 2500, TilesCreated: 60, TilesUsed: 63, TilesUnused: 0, FrameMillis: 4.2},
	}
	for _, f := range frames {
		if err := rec.Record(f); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		var got Frame
		if err := json.Unmarshal(scanner.Bytes(), &got); err != nil {
			t.Fatalf("line %d: %v", n, err)
		}
		if got != frames[n] {
			t.Errorf("line %d: got %+v, want %+v", n, got, frames[n])
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if n != len(frames) {
		t.Errorf("expected %d lines, got %d", len(frames), n)
	}
}

func TestNewRecorderTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.jsonl")
	if err := os.WriteFile(path, []byte("stale\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if err := rec.Record(Frame{Frame: 0}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	rec.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 || data[0] == 's' {
		t.Error("stale content survived NewRecorder")
	}
}
