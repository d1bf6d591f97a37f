package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/franz/photo-janitor/internal/util"
)

// NeedsReviewFolder collects every item no date source could place.
// Items are never dropped for lacking a date; they land here for a
// human to sort out.
const NeedsReviewFolder = "needs_review"

// Folder maps a resolved date to the relative output folder, YYYY/MM.
// A zero time maps to the needs-review folder.
func Folder(t time.Time) string {
	if t.IsZero() {
		return NeedsReviewFolder
	}
	return filepath.Join(
		fmt.Sprintf("%04d", t.Year()),
		fmt.Sprintf("%02d", int(t.Month())),
	)
}

// DestPath computes the full destination path for a media file,
// preserving its filename.
func DestPath(outputRoot, mediaPath string, t time.Time) string {
	return filepath.Join(outputRoot, Folder(t), filepath.Base(mediaPath))
}

// ResolveCollision returns destPath unchanged when it is free,
// otherwise the first of name_2, name_3, ... that does not exist.
// First write wins; later arrivals get renamed.
func ResolveCollision(destPath string) string {
	if _, err := os.Stat(destPath); os.IsNotExist(err) {
		return destPath
	}

	ext := filepath.Ext(destPath)
	stem := strings.TrimSuffix(destPath, ext)
	for counter := 2; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, counter, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// AlreadyCopied reports whether a previous run already produced this
// destination: same name and same size is treated as done, which makes
// interrupted runs safely resumable.
func AlreadyCopied(src, dest string) bool {
	return util.SameSize(src, dest)
}
