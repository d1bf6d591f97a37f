package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/franz/photo-janitor/internal/util"
)

// Summary accumulates migration counters and the plain-text logs. All
// mutation goes through Log* methods, so the pipeline never touches
// package-level state.
type Summary struct {
	mu sync.Mutex

	StartedAt time.Time

	Total         int
	Copied        int
	SkippedDupes  int
	SkippedResume int
	NeedsReview   int
	Errors        int
	BytesWritten  int64

	// resolved-date provenance, keyed by date source name
	DateSources map[string]int

	logLines    []string
	reviewLines []string
	errorLines  []string
}

// NewSummary creates an empty summary
func NewSummary() *Summary {
	return &Summary{
		StartedAt:   time.Now(),
		DateSources: make(map[string]int),
	}
}

// LogCopy records a successful copy.
func (s *Summary) LogCopy(srcPath, destPath, dateSource string, bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Copied++
	s.BytesWritten += bytes
	s.DateSources[dateSource]++
	s.logLines = append(s.logLines, fmt.Sprintf("[%s] %s -> %s", dateSource, srcPath, destPath))
}

// LogDuplicate records an in-run duplicate that was skipped.
func (s *Summary) LogDuplicate(srcPath, firstPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SkippedDupes++
	s.logLines = append(s.logLines, fmt.Sprintf("[duplicate] %s (same as %s)", srcPath, firstPath))
}

// LogResume records a file already present from an earlier run.
func (s *Summary) LogResume(srcPath, destPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SkippedResume++
	s.logLines = append(s.logLines, fmt.Sprintf("[resume] %s already at %s", srcPath, destPath))
}

// LogReview records an item that landed in the needs-review folder.
func (s *Summary) LogReview(srcPath, destPath, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.NeedsReview++
	s.reviewLines = append(s.reviewLines, fmt.Sprintf("%s: %s", filepath.Base(destPath), reason))
	s.logLines = append(s.logLines, fmt.Sprintf("[review] %s -> %s (%s)", srcPath, destPath, reason))
}

// LogError records a per-item failure that did not stop the run.
func (s *Summary) LogError(srcPath string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Errors++
	s.errorLines = append(s.errorLines, fmt.Sprintf("%s: %v", srcPath, err))
	s.logLines = append(s.logLines, fmt.Sprintf("[error] %s: %v", srcPath, err))
}

// ErrorLines returns the recorded per-item failures.
func (s *Summary) ErrorLines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errorLines...)
}

// Render prints the final banner to the console.
func (s *Summary) Render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	duration := time.Since(s.StartedAt).Round(time.Second)

	util.InfoLog("=====================================")
	util.SuccessLog("Migration complete in %s", duration)
	util.InfoLog("  Files found:      %d", s.Total)
	util.InfoLog("  Copied:           %d (%s)", s.Copied, humanize.IBytes(uint64(s.BytesWritten)))
	util.InfoLog("  Duplicates:       %d", s.SkippedDupes)
	util.InfoLog("  Already present:  %d", s.SkippedResume)
	util.InfoLog("  Needs review:     %d", s.NeedsReview)
	if s.Errors > 0 {
		util.WarnLog("  Errors:           %d", s.Errors)
	}

	if len(s.DateSources) > 0 {
		util.InfoLog("Date sources:")
		sources := make([]string, 0, len(s.DateSources))
		for src := range s.DateSources {
			sources = append(sources, src)
		}
		sort.Strings(sources)
		for _, src := range sources {
			util.InfoLog("  %-13s %d", src+":", s.DateSources[src])
		}
	}
	util.InfoLog("=====================================")
}

// WriteLogs writes migration_log.txt at the output root and, when any
// item needed review, a README.txt inside the needs-review folder
// explaining per file why it could not be dated.
func (s *Summary) WriteLogs(outputRoot, reviewFolder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Migration run %s\n", s.StartedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("copied=%d duplicates=%d resumed=%d review=%d errors=%d bytes=%d\n\n",
		s.Copied, s.SkippedDupes, s.SkippedResume, s.NeedsReview, s.Errors, s.BytesWritten))
	for _, line := range s.logLines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	logPath := filepath.Join(outputRoot, "migration_log.txt")
	if err := os.WriteFile(logPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write migration log: %w", err)
	}

	if len(s.reviewLines) > 0 {
		reviewDir := filepath.Join(outputRoot, reviewFolder)
		if err := os.MkdirAll(reviewDir, 0755); err != nil {
			return fmt.Errorf("failed to create review folder: %w", err)
		}

		var rb strings.Builder
		rb.WriteString("Files in this folder could not be dated from EXIF, sidecar\n")
		rb.WriteString("metadata, or their filename. Review and sort them manually.\n\n")
		for _, line := range s.reviewLines {
			rb.WriteString(line)
			rb.WriteString("\n")
		}

		readmePath := filepath.Join(reviewDir, "README.txt")
		if err := os.WriteFile(readmePath, []byte(rb.String()), 0644); err != nil {
			return fmt.Errorf("failed to write review readme: %w", err)
		}
	}

	return nil
}
