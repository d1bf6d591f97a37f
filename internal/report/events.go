package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventScan      EventType = "scan"
	EventCopy      EventType = "copy"
	EventDuplicate EventType = "duplicate"
	EventResume    EventType = "resume"
	EventReview    EventType = "review"
	EventSymlink   EventType = "symlink"
	EventError     EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single event in the migration pipeline
type Event struct {
	Timestamp    time.Time         `json:"ts"`
	RunID        string            `json:"run_id"`
	Level        EventLevel        `json:"level"`
	Event        EventType         `json:"event"`
	SrcPath      string            `json:"src_path,omitempty"`
	DestPath     string            `json:"dest_path,omitempty"`
	Album        string            `json:"album,omitempty"`
	DateSource   string            `json:"date_source,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	BytesWritten int64             `json:"bytes_written,omitempty"`
	Error        string            `json:"error,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file. Every event carries the
// run ID, so logs from resumed runs can be split apart later.
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	runID    string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level.
// minLevel determines which events are written (e.g., LevelInfo skips LevelDebug)
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("events-%s.jsonl", timestamp)
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		runID:    uuid.NewString(),
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	// Filter by minimum level
	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.RunID = l.runID

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogCopy logs a successful copy
func (l *EventLogger) LogCopy(srcPath, destPath, album, dateSource string, bytesWritten int64) error {
	return l.Log(&Event{
		Level:        LevelInfo,
		Event:        EventCopy,
		SrcPath:      srcPath,
		DestPath:     destPath,
		Album:        album,
		DateSource:   dateSource,
		BytesWritten: bytesWritten,
	})
}

// LogDuplicate logs a skipped in-run duplicate
func (l *EventLogger) LogDuplicate(srcPath, firstPath string) error {
	return l.Log(&Event{
		Level:   LevelDebug,
		Event:   EventDuplicate,
		SrcPath: srcPath,
		Extra: map[string]string{
			"duplicate_of": firstPath,
		},
	})
}

// LogResume logs a file skipped because a previous run already copied it
func (l *EventLogger) LogResume(srcPath, destPath string) error {
	return l.Log(&Event{
		Level:    LevelDebug,
		Event:    EventResume,
		SrcPath:  srcPath,
		DestPath: destPath,
	})
}

// LogReview logs an item routed to the needs-review folder
func (l *EventLogger) LogReview(srcPath, destPath, reason string) error {
	return l.Log(&Event{
		Level:    LevelWarning,
		Event:    EventReview,
		SrcPath:  srcPath,
		DestPath: destPath,
		Reason:   reason,
	})
}

// LogSymlink logs an album symlink creation
func (l *EventLogger) LogSymlink(album, destPath string) error {
	return l.Log(&Event{
		Level:    LevelDebug,
		Event:    EventSymlink,
		Album:    album,
		DestPath: destPath,
	})
}

// LogError logs an error event
func (l *EventLogger) LogError(event EventType, srcPath string, err error) error {
	return l.Log(&Event{
		Level:   LevelError,
		Event:   event,
		SrcPath: srcPath,
		Error:   err.Error(),
	})
}

// RunID returns this run's identifier.
func (l *EventLogger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// NullLogger returns a no-op event logger
func NullLogger() *EventLogger {
	return nil
}
