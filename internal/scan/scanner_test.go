package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func TestScan(t *testing.T) {
	gpDir := t.TempDir()
	album := filepath.Join(gpDir, "Photos from 2020")

	writeFile(t, filepath.Join(album, "IMG_001.jpg"), "media")
	writeFile(t, filepath.Join(album, "IMG_001.jpg.supplemental-metadata.json"), `{"title": "IMG_001.jpg"}`)
	writeFile(t, filepath.Join(album, "VID_002.mp4"), "media")
	writeFile(t, filepath.Join(album, "metadata.json"), `{"title": "Photos from 2020"}`)
	writeFile(t, filepath.Join(album, "notes.txt"), "ignored")

	scanner := New(nil)
	result, err := scanner.Scan(context.Background(), []string{gpDir})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Items) != 2 {
		t.Fatalf("Items = %d, want 2", len(result.Items))
	}
	if result.AlbumsWalked != 1 {
		t.Errorf("AlbumsWalked = %d, want 1", result.AlbumsWalked)
	}
	// metadata.json must not count; the item sidecar must
	if result.SidecarsIndexed != 1 {
		t.Errorf("SidecarsIndexed = %d, want 1", result.SidecarsIndexed)
	}

	for _, item := range result.Items {
		if item.Album != "Photos from 2020" {
			t.Errorf("item album = %q", item.Album)
		}
	}

	if _, ok := result.Index.Resolve("Photos from 2020", "IMG_001.jpg"); !ok {
		t.Error("sidecar not resolvable after scan")
	}
	if _, ok := result.Index.Resolve("Photos from 2020", "metadata"); ok {
		t.Error("album metadata leaked into the index")
	}
}

func TestScanAdditionalExtensions(t *testing.T) {
	gpDir := t.TempDir()
	album := filepath.Join(gpDir, "Album")
	writeFile(t, filepath.Join(album, "raw_photo.dng"), "media")

	scanner := New(nil)
	result, err := scanner.Scan(context.Background(), []string{gpDir})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("unknown extension picked up by default")
	}

	scanner = New(&Config{AdditionalExts: []string{".dng"}})
	result, err = scanner.Scan(context.Background(), []string{gpDir})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("Items = %d, want 1 with .dng enabled", len(result.Items))
	}
}

func TestScanSkipsSubdirectories(t *testing.T) {
	gpDir := t.TempDir()
	album := filepath.Join(gpDir, "Album")
	writeFile(t, filepath.Join(album, "nested", "deep.jpg"), "media")
	writeFile(t, filepath.Join(album, "top.jpg"), "media")

	scanner := New(nil)
	result, err := scanner.Scan(context.Background(), []string{gpDir})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("Items = %d, want 1 (albums are flat)", len(result.Items))
	}
}

func TestScanCancellation(t *testing.T) {
	gpDir := t.TempDir()
	writeFile(t, filepath.Join(gpDir, "Album", "a.jpg"), "media")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := New(nil)
	if _, err := scanner.Scan(ctx, []string{gpDir}); err == nil {
		t.Error("expected cancellation error")
	}
}
