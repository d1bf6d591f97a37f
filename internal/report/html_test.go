package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"2020/05", "2020-05"},
		{"Summer Vacation", "summer-vacation"},
		{"Urlaub in München", "urlaub-in-munchen"},
		{"Fête du Cinéma", "fete-du-cinema"},
		{"  spaces  ", "spaces"},
		{"already-fine", "already-fine"},
	}

	for _, tc := range testCases {
		if got := Slugify(tc.input); got != tc.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestHTMLReportWrite(t *testing.T) {
	dir := t.TempDir()

	summary := NewSummary()
	summary.LogCopy("/src/a.jpg", "/out/2020/05/a.jpg", "exif", 100)

	r := NewHTMLReport(dir, summary)
	r.AddItem(Item{
		Name:       "IMG_001.jpg",
		DestPath:   "/out/2020/05/IMG_001.jpg",
		Album:      "Summer Vacation",
		Folder:     "2020/05",
		DateSource: "exif",
		Date:       time.Date(2020, 5, 10, 20, 47, 0, 0, time.UTC),
		Details:    map[string]string{"camera": "Canon EOS R5"},
	}, true)
	r.AddDuplicate("/src/dupe.jpg", "/out/2020/05/IMG_001.jpg")

	if err := r.Write(); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	reportDir := filepath.Join(dir, "report")
	for _, page := range []string{
		"index.html",
		"folder-2020-05.html",
		"album-summer-vacation.html",
		"duplicates.html",
		"errors.html",
	} {
		if _, err := os.Stat(filepath.Join(reportDir, page)); err != nil {
			t.Errorf("page %s not written: %v", page, err)
		}
	}

	index, _ := os.ReadFile(filepath.Join(reportDir, "index.html"))
	if !strings.Contains(string(index), "folder-2020-05.html") {
		t.Error("index does not link the folder page")
	}

	folder, _ := os.ReadFile(filepath.Join(reportDir, "folder-2020-05.html"))
	if !strings.Contains(string(folder), "IMG_001.jpg") {
		t.Error("folder page missing item")
	}
	if !strings.Contains(string(folder), "Canon EOS R5") {
		t.Error("folder page missing details")
	}

	dupes, _ := os.ReadFile(filepath.Join(reportDir, "duplicates.html"))
	if !strings.Contains(string(dupes), "dupe.jpg") {
		t.Error("duplicates page missing entry")
	}
}

func TestHTMLReportDryRunBanner(t *testing.T) {
	dir := t.TempDir()

	r := NewHTMLReport(dir, NewSummary())
	r.DryRun = true
	r.AddItem(Item{Name: "IMG_001.jpg", Folder: "2020/05"}, false)

	if err := r.Write(); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	for _, page := range []string{"index.html", "folder-2020-05.html", "duplicates.html", "errors.html"} {
		data, err := os.ReadFile(filepath.Join(dir, "report", page))
		if err != nil {
			t.Fatalf("page %s not written: %v", page, err)
		}
		if !strings.Contains(string(data), "[DRY RUN]") {
			t.Errorf("page %s missing the dry-run banner", page)
		}
	}

	// A real run must not carry the banner.
	real := NewHTMLReport(t.TempDir(), NewSummary())
	real.AddItem(Item{Name: "IMG_001.jpg", Folder: "2020/05"}, false)
	if err := real.Write(); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	index, _ := os.ReadFile(filepath.Join(real.outputRoot, "report", "index.html"))
	if strings.Contains(string(index), "[DRY RUN]") {
		t.Error("banner shown outside dry-run")
	}
}

func TestHTMLReportGenericAlbumGetsNoPage(t *testing.T) {
	dir := t.TempDir()
	r := NewHTMLReport(dir, NewSummary())
	r.AddItem(Item{
		Name:   "IMG_001.jpg",
		Album:  "Photos from 2020",
		Folder: "2020/05",
	}, false)

	if err := r.Write(); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "report"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "album-") {
			t.Errorf("unexpected album page %s", e.Name())
		}
	}
}

func TestHTMLReportMaybeWriteThrottles(t *testing.T) {
	dir := t.TempDir()
	r := NewHTMLReport(dir, NewSummary())

	r.AddItem(Item{Name: "a.jpg", Folder: "2020/05"}, false)
	r.MaybeWrite()

	if _, err := os.Stat(filepath.Join(dir, "report", "index.html")); !os.IsNotExist(err) {
		t.Error("MaybeWrite wrote below the interval")
	}

	for i := 0; i < writeInterval; i++ {
		r.AddItem(Item{Name: "b.jpg", Folder: "2020/05"}, false)
	}
	r.MaybeWrite()

	if _, err := os.Stat(filepath.Join(dir, "report", "index.html")); err != nil {
		t.Errorf("MaybeWrite did not write at the interval: %v", err)
	}
}
