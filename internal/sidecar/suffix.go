package sidecar

import "strings"

// AlbumMetadataName is the per-album metadata file Takeout writes. It
// describes the album itself, not a single item, and is never indexed.
const AlbumMetadataName = "metadata.json"

// Suffixes are the sidecar filename suffixes Takeout produces, most
// specific first. Takeout truncates long filenames, so the
// "supplemental-metadata" part shows up chopped at various lengths;
// the bare ".json" fallback must come last.
var Suffixes = []string{
	".supplemental-metadata.json",
	".supplemental-metadat.json",
	".supplemental-metada.json",
	".supplemental-metad.json",
	".supplemental-meta.json",
	".supplemental-met.json",
	".supplemental-me.json",
	".supplemental-.json",
	".supplemental.json",
	".suppleme.json",
	".supplem.json",
	".supple.json",
	".suppl.json",
	".supp.json",
	".sup.json",
	".json",
}

// StripSuffix removes the first matching sidecar suffix from a sidecar
// filename, recovering the media filename it belongs to. Matching is
// case-insensitive; the returned prefix keeps the original casing.
// Returns "" and false when no suffix matches.
func StripSuffix(sidecarName string) (string, bool) {
	lower := strings.ToLower(sidecarName)
	for _, suffix := range Suffixes {
		if strings.HasSuffix(lower, suffix) {
			return sidecarName[:len(sidecarName)-len(suffix)], true
		}
	}
	return "", false
}
