package sidecar

import "strings"

// DefaultFuzzyThreshold is the minimum matched prefix length a fuzzy
// candidate needs before it is accepted. Short generic names ("IMG",
// numeric prefixes) would otherwise pair with unrelated sidecars. The
// value is a tuned heuristic, not a law of nature.
const DefaultFuzzyThreshold = 10

// Index maps media filenames to sidecar paths, per album. Two key sets
// feed it: the title declared inside each sidecar (authoritative, the
// origin system wrote it) and the sidecar's own filename with the known
// suffixes stripped (fallback). Title keys always win over stripped
// keys for the same filename; stripped keys fill the gaps.
//
// All album names and keys are lowercased. The index is read-only after
// construction.
type Index struct {
	titles   map[string]map[string]string
	stripped map[string]map[string]string

	// FuzzyThreshold overrides DefaultFuzzyThreshold when positive.
	FuzzyThreshold int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		titles:   make(map[string]map[string]string),
		stripped: make(map[string]map[string]string),
	}
}

// AddTitle registers a title-derived key for an album.
func (x *Index) AddTitle(album, name, sidecarPath string) {
	x.add(x.titles, album, name, sidecarPath)
}

// AddStripped registers a suffix-stripped key for an album. It only
// takes effect for filenames no title entry covers.
func (x *Index) AddStripped(album, name, sidecarPath string) {
	x.add(x.stripped, album, name, sidecarPath)
}

func (x *Index) add(m map[string]map[string]string, album, name, sidecarPath string) {
	albumKey := strings.ToLower(album)
	entries, ok := m[albumKey]
	if !ok {
		entries = make(map[string]string)
		m[albumKey] = entries
	}
	entries[strings.ToLower(name)] = sidecarPath
}

// Albums returns the number of albums with at least one entry.
func (x *Index) Albums() int {
	albums := make(map[string]struct{}, len(x.titles))
	for a := range x.titles {
		albums[a] = struct{}{}
	}
	for a := range x.stripped {
		albums[a] = struct{}{}
	}
	return len(albums)
}

// Len returns the total number of distinct (album, filename) entries.
func (x *Index) Len() int {
	n := 0
	for album := range x.titles {
		n += len(x.merged(album))
	}
	for album := range x.stripped {
		if _, ok := x.titles[album]; !ok {
			n += len(x.stripped[album])
		}
	}
	return n
}

// merged returns the effective key set for an album: every title entry
// plus stripped entries whose key no title entry claims.
func (x *Index) merged(album string) map[string]string {
	titles := x.titles[album]
	stripped := x.stripped[album]

	out := make(map[string]string, len(titles)+len(stripped))
	for k, v := range titles {
		out[k] = v
	}
	for k, v := range stripped {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Resolve finds the sidecar path for a media filename within an album.
//
// An exact lookup of the lowercased filename short-circuits; this is the
// common case. Otherwise a fuzzy pass handles truncation on either side:
// for every indexed key, the match length is the filename's length when
// the key is a prefix of it, or the key's length when the filename is a
// prefix of the key. The longest match wins; equal lengths go to the
// lexicographically smallest key so reruns resolve identically. Matches
// shorter than the threshold are rejected.
func (x *Index) Resolve(album, mediaName string) (string, bool) {
	entries := x.merged(strings.ToLower(album))
	if len(entries) == 0 {
		return "", false
	}

	nameKey := strings.ToLower(mediaName)
	if path, ok := entries[nameKey]; ok {
		return path, true
	}

	threshold := x.FuzzyThreshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}

	bestPath := ""
	bestKey := ""
	bestLen := 0
	for key, path := range entries {
		matchLen := 0
		switch {
		case strings.HasPrefix(nameKey, key):
			matchLen = len(key)
		case strings.HasPrefix(key, nameKey):
			matchLen = len(nameKey)
		default:
			continue
		}
		if matchLen > bestLen || (matchLen == bestLen && key < bestKey) {
			bestPath = path
			bestKey = key
			bestLen = matchLen
		}
	}

	if bestLen >= threshold {
		return bestPath, true
	}
	return "", false
}
