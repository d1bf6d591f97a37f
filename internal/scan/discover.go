package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/franz/photo-janitor/internal/util"
)

// photosDirName is the fixed directory name Takeout nests albums under.
const photosDirName = "Google Photos"

// FindTakeoutDirs locates every "Takeout*/Google Photos" directory under
// sourceRoot. Users point --source at all sorts of levels, so several
// shapes are auto-detected, in order:
//
//  1. sourceRoot contains Takeout*/ children (the intended usage)
//  2. sourceRoot is a Takeout directory itself
//  3. sourceRoot is a Google Photos directory itself
//  4. sourceRoot is a grandparent: its children contain Takeout*/ dirs
//
// The returned list is sorted so processing order is reproducible.
func FindTakeoutDirs(sourceRoot string) ([]string, error) {
	entries, err := os.ReadDir(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read source root: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "Takeout") {
			continue
		}
		gpDir := filepath.Join(sourceRoot, entry.Name(), photosDirName)
		if isDir(gpDir) {
			dirs = append(dirs, gpDir)
		}
	}
	if len(dirs) > 0 {
		return dirs, nil
	}

	// Case 2: sourceRoot is a Takeout dir (has Google Photos/ inside)
	gpDir := filepath.Join(sourceRoot, photosDirName)
	if isDir(gpDir) {
		util.DebugLog("Auto-detected: source points at a Takeout directory")
		return []string{gpDir}, nil
	}

	// Case 3: sourceRoot is the Google Photos dir itself
	if filepath.Base(sourceRoot) == photosDirName && hasSubdirs(entries) {
		util.DebugLog("Auto-detected: source points at a Google Photos directory")
		return []string{sourceRoot}, nil
	}

	// Case 4: look one level deeper
	for _, child := range entries {
		if !child.IsDir() {
			continue
		}
		grandchildren, err := os.ReadDir(filepath.Join(sourceRoot, child.Name()))
		if err != nil {
			continue
		}
		for _, gc := range grandchildren {
			if !gc.IsDir() || !strings.HasPrefix(gc.Name(), "Takeout") {
				continue
			}
			gpDir := filepath.Join(sourceRoot, child.Name(), gc.Name(), photosDirName)
			if isDir(gpDir) {
				dirs = append(dirs, gpDir)
			}
		}
	}
	if len(dirs) > 0 {
		util.DebugLog("Auto-detected: found Takeout directories one level deeper")
	}

	return dirs, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func hasSubdirs(entries []os.DirEntry) bool {
	for _, e := range entries {
		if e.IsDir() {
			return true
		}
	}
	return false
}
