package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/franz/photo-janitor/internal/sidecar"
	"github.com/franz/photo-janitor/internal/util"
)

// MediaExtensions are the default supported photo and video extensions
var MediaExtensions = []string{
	".jpg",
	".jpeg",
	".png",
	".gif",
	".heic",
	".webp",
	".bmp",
	".tiff",
	".tif",
	".mp4",
	".mov",
	".avi",
	".mkv",
	".m4v",
	".3gp",
	".wmv",
	".mpg",
	".mpeg",
}

// MediaItem is one discovered media file: its absolute source path and
// the album directory it was found in. Items are immutable after
// discovery and consumed exactly once by the pipeline.
type MediaItem struct {
	Path  string
	Album string
}

// Scanner walks Takeout album directories, collecting media files and
// building the sidecar index in a single pass. Media content is never
// read during the walk.
type Scanner struct {
	extensions map[string]bool
}

// Config holds scanner configuration
type Config struct {
	AdditionalExts []string
}

// New creates a new Scanner
func New(cfg *Config) *Scanner {
	// Build extension map (case-insensitive)
	extMap := make(map[string]bool)
	for _, ext := range MediaExtensions {
		extMap[strings.ToLower(ext)] = true
	}
	if cfg != nil {
		for _, ext := range cfg.AdditionalExts {
			extMap[strings.ToLower(ext)] = true
		}
	}

	return &Scanner{extensions: extMap}
}

// Result represents a scan result
type Result struct {
	Items []MediaItem
	Index *sidecar.Index

	AlbumsWalked    int
	SidecarsIndexed int
}

// Scan walks every album under the given Takeout photo directories.
// Each sidecar contributes a title-derived index key (when its JSON
// parses and declares a title) and a suffix-stripped key; the album
// metadata file and anything that is neither media nor sidecar is
// ignored. Directory entries are visited in sorted order so the item
// list is stable across runs.
func (s *Scanner) Scan(ctx context.Context, takeoutDirs []string) (*Result, error) {
	result := &Result{Index: sidecar.NewIndex()}

	for _, gpDir := range takeoutDirs {
		albums, err := os.ReadDir(gpDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", gpDir, err)
		}

		for _, albumEntry := range albums {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !albumEntry.IsDir() {
				continue
			}
			albumName := albumEntry.Name()
			albumDir := filepath.Join(gpDir, albumName)

			if err := s.scanAlbum(albumDir, albumName, result); err != nil {
				return nil, err
			}
			result.AlbumsWalked++
		}
	}

	return result, nil
}

func (s *Scanner) scanAlbum(albumDir, albumName string, result *Result) error {
	entries, err := os.ReadDir(albumDir)
	if err != nil {
		return fmt.Errorf("failed to read album %s: %w", albumDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		nameLower := strings.ToLower(name)
		path := filepath.Join(albumDir, name)

		if strings.HasSuffix(nameLower, ".json") {
			if nameLower == sidecar.AlbumMetadataName {
				continue // describes the album, not an item
			}

			if title := sidecar.ReadTitle(path); title != "" {
				result.Index.AddTitle(albumName, title, path)
			}
			if stripped, ok := sidecar.StripSuffix(name); ok && stripped != "" {
				result.Index.AddStripped(albumName, stripped, path)
			}
			result.SidecarsIndexed++
			continue
		}

		if s.isMediaFile(path) {
			result.Items = append(result.Items, MediaItem{Path: path, Album: albumName})
		} else {
			util.DebugLog("Ignoring non-media file: %s", path)
		}
	}

	return nil
}

// isMediaFile checks if a file has a supported media extension
func (s *Scanner) isMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return s.extensions[ext]
}

// GetSupportedExtensions returns the list of supported extensions
func (s *Scanner) GetSupportedExtensions() []string {
	exts := make([]string, 0, len(s.extensions))
	for ext := range s.extensions {
		exts = append(exts, ext)
	}
	return exts
}
