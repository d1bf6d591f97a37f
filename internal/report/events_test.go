package report

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open event log: %v", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("Failed to parse event line: %v", err)
		}
		events = append(events, ev)
	}
	return events
}

func TestEventLogger(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewEventLogger(dir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	logger.LogCopy("/src/a.jpg", "/out/a.jpg", "Summer", "exif", 42)
	logger.LogDuplicate("/src/b.jpg", "/out/a.jpg")
	logger.LogReview("/src/c.jpg", "/out/needs_review/c.jpg", "no usable date source")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events := readEvents(t, logger.Path())
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	if events[0].Event != EventCopy || events[0].BytesWritten != 42 || events[0].DateSource != "exif" {
		t.Errorf("copy event = %+v", events[0])
	}
	if events[1].Event != EventDuplicate || events[1].Extra["duplicate_of"] != "/out/a.jpg" {
		t.Errorf("duplicate event = %+v", events[1])
	}
	if events[2].Event != EventReview || events[2].Level != LevelWarning {
		t.Errorf("review event = %+v", events[2])
	}

	// Every event carries the same run ID
	for _, ev := range events {
		if ev.RunID == "" || ev.RunID != logger.RunID() {
			t.Errorf("event run_id = %q, logger run_id = %q", ev.RunID, logger.RunID())
		}
	}
}

func TestEventLoggerLevelFilter(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewEventLogger(dir, LevelWarning)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	logger.LogCopy("/src/a.jpg", "/out/a.jpg", "", "exif", 1)    // info, filtered
	logger.LogDuplicate("/src/b.jpg", "/out/a.jpg")              // debug, filtered
	logger.LogReview("/src/c.jpg", "/out/c.jpg", "no date")      // warning, kept
	logger.LogError(EventError, "/src/d.jpg", os.ErrPermission)  // error, kept

	logger.Close()

	events := readEvents(t, logger.Path())
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 after filtering", len(events))
	}
}

func TestNullLogger(t *testing.T) {
	logger := NullLogger()

	// Every method must be safe on the nil logger
	if err := logger.LogCopy("/a", "/b", "", "exif", 1); err != nil {
		t.Errorf("LogCopy on nil logger: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
	if logger.Path() != "" {
		t.Error("Path on nil logger not empty")
	}
	if logger.RunID() != "" {
		t.Error("RunID on nil logger not empty")
	}
}
