package sidecar

import "testing"

func TestResolveExact(t *testing.T) {
	idx := NewIndex()
	idx.AddStripped("Album", "photo.jpg", "/a/photo.jpg.json")

	path, ok := idx.Resolve("Album", "photo.jpg")
	if !ok || path != "/a/photo.jpg.json" {
		t.Errorf("Resolve = %q, %v; want /a/photo.jpg.json, true", path, ok)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	idx := NewIndex()
	idx.AddStripped("My Album", "Photo.JPG", "/a/p.json")

	path, ok := idx.Resolve("my album", "photo.jpg")
	if !ok || path != "/a/p.json" {
		t.Errorf("Resolve = %q, %v; want /a/p.json, true", path, ok)
	}
}

func TestResolveTitleBeatsStripped(t *testing.T) {
	idx := NewIndex()
	idx.AddStripped("Album", "photo.jpg", "/stripped.json")
	idx.AddTitle("Album", "photo.jpg", "/title.json")

	path, ok := idx.Resolve("Album", "photo.jpg")
	if !ok || path != "/title.json" {
		t.Errorf("Resolve = %q, %v; want title entry to win", path, ok)
	}
}

func TestResolveStrippedFillsGaps(t *testing.T) {
	idx := NewIndex()
	idx.AddTitle("Album", "other.jpg", "/other.json")
	idx.AddStripped("Album", "photo.jpg", "/stripped.json")

	path, ok := idx.Resolve("Album", "photo.jpg")
	if !ok || path != "/stripped.json" {
		t.Errorf("Resolve = %q, %v; want stripped entry", path, ok)
	}
}

func TestResolveFuzzy(t *testing.T) {
	testCases := []struct {
		name      string
		indexed   string
		lookup    string
		expectHit bool
	}{
		{
			// Takeout truncated the sidecar's filename, so the key is
			// a prefix of the media name.
			name:      "key is prefix of media name",
			indexed:   "IMG_20200510_2047",
			lookup:    "IMG_20200510_204759.jpg",
			expectHit: true,
		},
		{
			// The media name got truncated instead.
			name:      "media name is prefix of key",
			indexed:   "IMG_20200510_204759.jpg",
			lookup:    "IMG_20200510_20",
			expectHit: true,
		},
		{
			name:      "short overlap rejected",
			indexed:   "IMG_12345",
			lookup:    "IMG_12345999.jpg",
			expectHit: false,
		},
		{
			name:      "exactly at threshold",
			indexed:   "IMG_123456",
			lookup:    "IMG_123456_extra.jpg",
			expectHit: true,
		},
		{
			name:      "no common prefix",
			indexed:   "VID_20200101_000000.mp4",
			lookup:    "IMG_20200510_204759.jpg",
			expectHit: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			idx := NewIndex()
			idx.AddStripped("Album", tc.indexed, "/sidecar.json")

			_, ok := idx.Resolve("Album", tc.lookup)
			if ok != tc.expectHit {
				t.Errorf("Resolve(%q) against key %q: hit = %v, want %v",
					tc.lookup, tc.indexed, ok, tc.expectHit)
			}
		})
	}
}

func TestResolveFuzzyLongestWins(t *testing.T) {
	idx := NewIndex()
	idx.AddStripped("Album", "IMG_20200510", "/short.json")
	idx.AddStripped("Album", "IMG_20200510_2047", "/long.json")

	path, ok := idx.Resolve("Album", "IMG_20200510_204759.jpg")
	if !ok || path != "/long.json" {
		t.Errorf("Resolve = %q, %v; want longest match /long.json", path, ok)
	}
}

func TestResolveFuzzyTieBreak(t *testing.T) {
	// Two keys with the same match length: the lexicographically
	// smaller key must win, every run.
	idx := NewIndex()
	idx.AddStripped("Album", "IMG_20200510_204759.jpg.b", "/b.json")
	idx.AddStripped("Album", "IMG_20200510_204759.jpg.a", "/a.json")

	for i := 0; i < 20; i++ {
		path, ok := idx.Resolve("Album", "IMG_20200510_204759.jpg")
		if !ok || path != "/a.json" {
			t.Fatalf("Resolve = %q, %v; want deterministic /a.json", path, ok)
		}
	}
}

func TestResolveAlbumScoped(t *testing.T) {
	idx := NewIndex()
	idx.AddStripped("Album A", "photo.jpg", "/a.json")

	if _, ok := idx.Resolve("Album B", "photo.jpg"); ok {
		t.Error("Resolve matched across albums")
	}
}

func TestResolveCustomThreshold(t *testing.T) {
	idx := NewIndex()
	idx.FuzzyThreshold = 5
	idx.AddStripped("Album", "IMG_1", "/a.json")

	if _, ok := idx.Resolve("Album", "IMG_1234.jpg"); !ok {
		t.Error("lowered threshold did not take effect")
	}
}
