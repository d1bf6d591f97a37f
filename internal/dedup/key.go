package dedup

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"time"
)

// hashChunkSize keeps large videos from being slurped into memory.
const hashChunkSize = 1 << 20 // 1 MiB

// minuteLayout renders the minute-rounded date component of a key.
const minuteLayout = "2006-01-02T15:04:05"

// Key identifies "the same photo, possibly re-exported" within a single
// run. Minute is the resolved date truncated to minute precision, or ""
// when no date was resolved. A real date never formats to the empty
// string, so dateless files only collide with other dateless files.
type Key struct {
	Hash   string
	Minute string
}

// HashFile streams the file through MD5 in fixed-size chunks and
// returns the hex digest. Collision resistance is not a security
// requirement here; MD5's accidental-collision probability is plenty.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// MakeKey combines a content hash with the resolved date rounded down
// to the minute. Second-level jitter between re-exports of the same
// photo must not split the key.
func MakeKey(hash string, t time.Time) Key {
	if t.IsZero() {
		return Key{Hash: hash}
	}
	rounded := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	return Key{Hash: hash, Minute: rounded.Format(minuteLayout)}
}

// Seen is the process-local set of keys observed during one run.
// Nothing persists across runs; cross-run dedup is approximated by the
// destination size check instead.
type Seen map[Key]struct{}

// NewSeen returns an empty seen-set.
func NewSeen() Seen {
	return make(Seen)
}

// Add records a key. It reports true the first time a key is seen and
// false for every repeat.
func (s Seen) Add(k Key) bool {
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}
