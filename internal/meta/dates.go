package meta

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/franz/photo-janitor/internal/sidecar"
)

// Source identifies which step of the date cascade produced a date.
// Exactly one source is attached per media file.
type Source string

const (
	SourceEXIF        Source = "exif"
	SourceJSONTaken   Source = "json_taken"
	SourceFilename    Source = "filename"
	SourceJSONCreated Source = "json_created"
	SourceMtime       Source = "mtime"
	SourceNone        Source = "none"
)

// Resolver resolves a single best-effort capture date per media file.
//
// The cascade is strictly ordered, first success wins:
//  1. EXIF capture time (images only)
//  2. sidecar photoTakenTime
//  3. filename date pattern
//  4. sidecar creationTime
//  5. filesystem mtime
//
// EXIF support is decided once at startup and carried as a flag rather
// than rechecked per file.
type Resolver struct {
	ExifEnabled bool
}

// NewResolver returns a Resolver with EXIF reading enabled.
func NewResolver() *Resolver {
	return &Resolver{ExifEnabled: true}
}

// Resolve returns the best date for a media file together with its
// source tag. A zero time with SourceNone is a valid terminal outcome
// (the item needs manual review), not an error.
//
// The only error condition is a filesystem failure statting the media
// file itself in the mtime step; that is surfaced so the caller can
// count the item as failed instead of silently misfiling it.
func (r *Resolver) Resolve(mediaPath string, sc *sidecar.Sidecar) (time.Time, Source, error) {
	if r.ExifEnabled {
		if t, ok := DateFromExif(mediaPath); ok {
			return t, SourceEXIF, nil
		}
	}

	if sc != nil {
		if t, ok := sc.PhotoTaken.Time(); ok {
			return t, SourceJSONTaken, nil
		}
	}

	if t, ok := DateFromFilename(filepath.Base(mediaPath)); ok {
		return t, SourceFilename, nil
	}

	if sc != nil {
		if t, ok := sc.CreationTime.Time(); ok {
			return t, SourceJSONCreated, nil
		}
	}

	t, ok, err := dateFromMtime(mediaPath)
	if err != nil {
		return time.Time{}, SourceNone, err
	}
	if ok {
		return t, SourceMtime, nil
	}

	return time.Time{}, SourceNone, nil
}

// dateFromMtime reads the file's modification time. A stat failure is
// reported to the caller; a pre-1970 mtime is treated as absent.
func dateFromMtime(mediaPath string) (time.Time, bool, error) {
	info, err := os.Stat(mediaPath)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to stat media file: %w", err)
	}
	mtime := info.ModTime()
	if mtime.Year() < 1970 {
		return time.Time{}, false, nil
	}
	return mtime, true, nil
}
