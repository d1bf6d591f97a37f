package execute

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/franz/photo-janitor/internal/util"
)

// AlbumsFolder holds the per-album symlink tree next to the YYYY/MM
// folders.
const AlbumsFolder = "Albums"

// genericAlbumRE matches the auto-generated album names Takeout
// produces for unorganized media. Those carry no curation signal, so
// they get no album tree.
var genericAlbumRE = regexp.MustCompile(`(?i)^(Photos from \d{4}|Untitled\(\d+\))$`)

// IsGenericAlbum reports whether albumName is an auto-generated
// Takeout album rather than one the user created.
func IsGenericAlbum(albumName string) bool {
	return genericAlbumRE.MatchString(albumName)
}

// Linker rebuilds user-created albums as symlink directories over the
// date-organized tree.
type Linker struct {
	outputRoot string
	dryRun     bool

	// album name -> destination paths of its members
	members map[string][]string
}

// NewLinker creates a new Linker
func NewLinker(outputRoot string, dryRun bool) *Linker {
	return &Linker{
		outputRoot: outputRoot,
		dryRun:     dryRun,
		members:    make(map[string][]string),
	}
}

// Record remembers that an item from albumName ended up at destPath.
// Generic albums are dropped here so callers never need to filter.
func (l *Linker) Record(albumName, destPath string) {
	if IsGenericAlbum(albumName) {
		return
	}
	l.members[albumName] = append(l.members[albumName], destPath)
}

// Albums returns the recorded user-created album names, sorted.
func (l *Linker) Albums() []string {
	names := make([]string, 0, len(l.members))
	for name := range l.members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Members returns the destination paths recorded for an album.
func (l *Linker) Members(albumName string) []string {
	return l.members[albumName]
}

// CreateLinks materializes the album tree: for each recorded album a
// directory under albums/ with one relative symlink per member.
// Relative targets keep the links valid when the whole output tree is
// moved. Returns the number of links created.
func (l *Linker) CreateLinks() (int, error) {
	created := 0
	for _, albumName := range l.Albums() {
		safeName := sanitizeAlbumName(albumName)
		if safeName == "" {
			continue
		}
		albumDir := filepath.Join(l.outputRoot, AlbumsFolder, safeName)

		if l.dryRun {
			util.DebugLog("DRY-RUN: Would create album %s with %d links", albumName, len(l.members[albumName]))
			created += len(l.members[albumName])
			continue
		}

		if err := os.MkdirAll(albumDir, 0755); err != nil {
			return created, fmt.Errorf("failed to create album directory: %w", err)
		}

		for _, destPath := range l.members[albumName] {
			linkPath := filepath.Join(albumDir, filepath.Base(destPath))
			target, err := filepath.Rel(albumDir, destPath)
			if err != nil {
				util.WarnLog("Failed to compute relative link target for %s: %v", destPath, err)
				continue
			}

			if err := os.Symlink(target, linkPath); err != nil {
				if os.IsExist(err) {
					continue // resumed run, link already there
				}
				util.WarnLog("Failed to create album link %s: %v", linkPath, err)
				continue
			}
			created++
		}
	}
	return created, nil
}

// sanitizeAlbumName makes an album name safe as a directory name.
// Path separators and colons become dashes; surrounding whitespace is
// dropped.
func sanitizeAlbumName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, ":", "-")
	return strings.TrimSpace(name)
}
