package util

import (
	"fmt"
	"os"
)

// GetFileMetadata extracts basic filesystem metadata
func GetFileMetadata(path string) (size int64, mtime int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to stat file: %w", err)
	}

	return info.Size(), info.ModTime().Unix(), nil
}

// SameSize reports whether both paths exist and have equal sizes.
// Used by the resume check: a destination with the same name and size
// as the source is treated as already migrated.
func SameSize(src, dest string) bool {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	destInfo, err := os.Stat(dest)
	if err != nil {
		return false
	}
	return srcInfo.Size() == destInfo.Size()
}
