package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/photo-janitor/internal/meta"
	"github.com/franz/photo-janitor/internal/scan"
	"github.com/franz/photo-janitor/internal/util"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a Takeout archive without copying anything",
	Long: `Analyze scans the Takeout archives under the source directory and
prints statistics: file counts by extension, album sizes, how many
media files have a matching sidecar, and how many carry a parseable
date in their filename. Nothing is written; use this to size up an
archive before running migrate.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("top-albums", 15, "number of largest albums to list")
	analyzeCmd.Flags().Int("exif-sample", 50, "number of photos to sample for EXIF dates (0 disables)")

	viper.BindPFlag("top-albums", analyzeCmd.Flags().Lookup("top-albums"))
	viper.BindPFlag("exif-sample", analyzeCmd.Flags().Lookup("exif-sample"))

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	source := viper.GetString("source")
	if source == "" {
		return fmt.Errorf("source directory is required (use --source/-s or set in config)")
	}

	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	if _, err := os.Stat(source); os.IsNotExist(err) {
		return fmt.Errorf("source directory does not exist: %s", source)
	}

	takeoutDirs, err := scan.FindTakeoutDirs(source)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	if len(takeoutDirs) == 0 {
		return fmt.Errorf("no Takeout directories found under %s", source)
	}

	scanner := scan.New(&scan.Config{
		AdditionalExts: viper.GetStringSlice("extensions"),
	})

	startTime := time.Now()
	result, err := scanner.Scan(ctx, takeoutDirs)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	extCounts := make(map[string]int)
	albumCounts := make(map[string]int)
	var totalBytes int64
	withSidecar := 0
	withFilenameDate := 0

	for _, item := range result.Items {
		extCounts[strings.ToLower(filepath.Ext(item.Path))]++
		albumCounts[item.Album]++

		if size, _, err := util.GetFileMetadata(item.Path); err == nil {
			totalBytes += size
		}
		if _, ok := result.Index.Resolve(item.Album, filepath.Base(item.Path)); ok {
			withSidecar++
		}
		if _, ok := meta.DateFromFilename(filepath.Base(item.Path)); ok {
			withFilenameDate++
		}
	}

	util.SuccessLog("Analyzed %d files in %v", len(result.Items), time.Since(startTime).Round(time.Millisecond))
	util.InfoLog("  Takeout dirs: %d", len(takeoutDirs))
	util.InfoLog("  Albums:       %d", result.AlbumsWalked)
	util.InfoLog("  Total size:   %s", humanize.IBytes(uint64(totalBytes)))
	util.InfoLog("  Sidecars:     %d indexed, %d/%d media files matched (%s)",
		result.SidecarsIndexed, withSidecar, len(result.Items), percent(withSidecar, len(result.Items)))
	util.InfoLog("  Filename dates: %d/%d (%s)",
		withFilenameDate, len(result.Items), percent(withFilenameDate, len(result.Items)))

	util.InfoLog("By extension:")
	for _, row := range sortedCounts(extCounts, 0) {
		util.InfoLog("  %-8s %d", row.name, row.count)
	}

	topN := viper.GetInt("top-albums")
	util.InfoLog("Largest albums:")
	for _, row := range sortedCounts(albumCounts, topN) {
		util.InfoLog("  %-40s %d", truncateName(row.name, 40), row.count)
	}

	if sampleSize := viper.GetInt("exif-sample"); sampleSize > 0 {
		sampled, withDate := sampleExifDates(result.Items, sampleSize)
		if sampled > 0 {
			util.InfoLog("EXIF sample: %d/%d photos carry an EXIF date (%s)",
				withDate, sampled, percent(withDate, sampled))
		}
	}

	return nil
}

// sampleExifDates checks up to sampleSize EXIF-capable photos for an
// embedded capture date. The item list is already in stable scan
// order, so taking the first N keeps the sample reproducible.
func sampleExifDates(items []scan.MediaItem, sampleSize int) (sampled, withDate int) {
	for _, item := range items {
		if !meta.IsExifCapable(item.Path) {
			continue
		}
		sampled++
		if _, ok := meta.DateFromExif(item.Path); ok {
			withDate++
		}
		if sampled >= sampleSize {
			break
		}
	}
	return sampled, withDate
}

type countRow struct {
	name  string
	count int
}

// sortedCounts returns rows by descending count, name as tiebreaker.
// limit <= 0 means all rows.
func sortedCounts(m map[string]int, limit int) []countRow {
	rows := make([]countRow, 0, len(m))
	for name, count := range m {
		rows = append(rows, countRow{name: name, count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func percent(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

func truncateName(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
