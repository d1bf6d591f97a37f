package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/photo-janitor/internal/dedup"
	"github.com/franz/photo-janitor/internal/execute"
	"github.com/franz/photo-janitor/internal/meta"
	"github.com/franz/photo-janitor/internal/plan"
	"github.com/franz/photo-janitor/internal/report"
	"github.com/franz/photo-janitor/internal/scan"
	"github.com/franz/photo-janitor/internal/sidecar"
	"github.com/franz/photo-janitor/internal/util"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate Takeout photos into a YEAR/MONTH library",
	Long: `Migrate walks every Takeout archive under the source directory and
copies each photo and video into <output>/YYYY/MM based on its best
capture date. Along the way it:

1. Matches media files to their JSON sidecars (exact, then fuzzy)
2. Resolves dates from EXIF, sidecar timestamps, or the filename
3. Skips duplicates (same content hash, same capture minute)
4. Routes undatable files to a needs_review folder
5. Rebuilds user-created albums as relative-symlink folders
6. Writes an HTML report, a migration log, and a JSONL event log

Interrupted runs can simply be restarted: files already present at
their destination with the right size are skipped.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringP("output", "o", "", "output library directory (required)")
	migrateCmd.Flags().BoolP("dry-run", "n", false, "log actions without copying anything")
	migrateCmd.Flags().Bool("no-exif", false, "skip EXIF date extraction")
	migrateCmd.Flags().Bool("no-symlinks", false, "skip album symlink creation")

	viper.BindPFlag("output", migrateCmd.Flags().Lookup("output"))
	viper.BindPFlag("dry-run", migrateCmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("no-exif", migrateCmd.Flags().Lookup("no-exif"))
	viper.BindPFlag("no-symlinks", migrateCmd.Flags().Lookup("no-symlinks"))

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := viper.GetString("source")
	if source == "" {
		return fmt.Errorf("source directory is required (use --source/-s or set in config)")
	}
	output := viper.GetString("output")
	if output == "" {
		return fmt.Errorf("output directory is required (use --output/-o or set in config)")
	}

	dryRun := viper.GetBool("dry-run")
	noExif := viper.GetBool("no-exif")
	noSymlinks := viper.GetBool("no-symlinks")
	verbose := viper.GetBool("verbose")
	quiet := viper.GetBool("quiet")

	util.SetVerbose(verbose)
	util.SetQuiet(quiet)

	if _, err := os.Stat(source); os.IsNotExist(err) {
		return fmt.Errorf("source directory does not exist: %s", source)
	}
	// The HTML report is written in dry-run too (stamped as a
	// preview), so the output root is always needed.
	if err := os.MkdirAll(output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if dryRun {
		util.InfoLog("DRY-RUN mode: no files will be copied")
	}

	// Event logger with level matching the console. Dry runs get the
	// null logger: a preview must not leave an events file behind.
	logger := report.NullLogger()
	if !dryRun {
		logLevel := report.LevelInfo
		if util.IsQuiet() {
			logLevel = report.LevelWarning
		} else if util.IsVerbose() {
			logLevel = report.LevelDebug
		}

		var err error
		logger, err = report.NewEventLogger(output, logLevel)
		if err != nil {
			util.WarnLog("Failed to create event logger: %v", err)
			logger = report.NullLogger()
		}
	}
	defer logger.Close()

	if logger.Path() != "" {
		util.InfoLog("Event log: %s", logger.Path())
	}

	// Phase 1: Discovery
	util.InfoLog("=== Phase 1: Takeout Discovery ===")
	util.InfoLog("Source: %s", source)

	takeoutDirs, err := scan.FindTakeoutDirs(source)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	if len(takeoutDirs) == 0 {
		return fmt.Errorf("no Takeout directories found under %s", source)
	}
	util.InfoLog("Found %d Takeout photo directories", len(takeoutDirs))

	// Phase 2: Scan albums and index sidecars
	util.InfoLog("=== Phase 2: Album Scan ===")

	scanner := scan.New(&scan.Config{
		AdditionalExts: viper.GetStringSlice("extensions"),
	})

	startTime := time.Now()
	scanResult, err := scanner.Scan(ctx, takeoutDirs)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	util.SuccessLog("Scan complete in %v", time.Since(startTime).Round(time.Millisecond))
	util.InfoLog("  Albums: %d", scanResult.AlbumsWalked)
	util.InfoLog("  Media files: %d", len(scanResult.Items))
	util.InfoLog("  Sidecars indexed: %d", scanResult.SidecarsIndexed)

	if len(scanResult.Items) == 0 {
		util.InfoLog("Nothing to migrate")
		return nil
	}

	// Phase 3-5: Resolve, dedup, copy
	util.InfoLog("=== Phase 3: Migration ===")

	resolver := meta.NewResolver()
	resolver.ExifEnabled = !noExif

	summary := report.NewSummary()
	summary.Total = len(scanResult.Items)
	htmlReport := report.NewHTMLReport(output, summary)
	htmlReport.DryRun = dryRun
	linker := execute.NewLinker(output, dryRun)
	copier := execute.New(&execute.Config{DryRun: dryRun})
	seen := dedup.NewSeen()
	keptAs := make(map[dedup.Key]string)

	// Progress bar only on an interactive terminal
	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(scanResult.Items),
			progressbar.OptionSetDescription("Migrating"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files"),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}

	for i, item := range scanResult.Items {
		if err := ctx.Err(); err != nil {
			util.WarnLog("Interrupted, stopping after %d files", summary.Copied)
			break
		}
		if bar != nil {
			bar.Add(1)
		} else if !util.IsQuiet() && i > 0 && i%500 == 0 {
			// Text fallback when output is piped or redirected
			util.InfoLog("Migrating: %d/%d (%.1f%%)", i, len(scanResult.Items),
				float64(i)/float64(len(scanResult.Items))*100)
		}

		if err := migrateItem(ctx, item, scanResult.Index, resolver, copier, seen, keptAs,
			output, summary, htmlReport, linker, logger); err != nil {
			summary.LogError(item.Path, err)
			logger.LogError(report.EventError, item.Path, err)
		}
		htmlReport.MaybeWrite()
	}
	if bar != nil {
		bar.Finish()
	}

	// Phase 6: Album symlinks
	if !noSymlinks {
		util.InfoLog("=== Phase 4: Album Links ===")
		linkCount, err := linker.CreateLinks()
		if err != nil {
			util.WarnLog("Album link creation failed: %v", err)
		}
		for _, album := range linker.Albums() {
			logger.LogSymlink(album, filepath.Join(output, execute.AlbumsFolder, album))
		}
		util.InfoLog("  Albums: %d, links: %d", len(linker.Albums()), linkCount)
	}

	// Final reports. The HTML report is written for dry runs too so
	// a preview is browsable; the migration log is not, it records
	// actual copies only.
	if err := htmlReport.Write(); err != nil {
		util.WarnLog("Failed to write HTML report: %v", err)
	}
	if !dryRun {
		if err := summary.WriteLogs(output, plan.NeedsReviewFolder); err != nil {
			util.WarnLog("Failed to write migration log: %v", err)
		}
	}
	summary.Render()

	return nil
}

// migrateItem runs one media file through the pipeline: sidecar
// lookup, date resolution, dedup, copy, bookkeeping. Returned errors
// are per-item; the caller counts them and moves on.
func migrateItem(ctx context.Context, item scan.MediaItem, index *sidecar.Index,
	resolver *meta.Resolver, copier *execute.Copier, seen dedup.Seen, keptAs map[dedup.Key]string,
	output string, summary *report.Summary, htmlReport *report.HTMLReport,
	linker *execute.Linker, logger *report.EventLogger) error {

	mediaName := filepath.Base(item.Path)

	// Sidecar lookup. A missing or unparseable sidecar is normal;
	// the date cascade just has fewer sources to draw from.
	var sc *sidecar.Sidecar
	sidecarPath, found := index.Resolve(item.Album, mediaName)
	if found {
		parsed, err := sidecar.ParseFile(sidecarPath)
		if err != nil {
			util.DebugLog("Unparseable sidecar %s: %v", sidecarPath, err)
		} else {
			sc = parsed
		}
	}

	date, dateSource, err := resolver.Resolve(item.Path, sc)
	if err != nil {
		return fmt.Errorf("failed to resolve date: %w", err)
	}

	destPath := plan.DestPath(output, item.Path, date)

	// Resume check before hashing: rerunning over an already-migrated
	// archive must not re-read every byte just to learn the file is
	// already in place.
	if plan.AlreadyCopied(item.Path, destPath) {
		summary.LogResume(item.Path, destPath)
		logger.LogResume(item.Path, destPath)
		linker.Record(item.Album, destPath)
		reportItem(htmlReport, item, mediaName, destPath, date, dateSource, sc)
		return nil
	}

	hash, err := dedup.HashFile(item.Path)
	if err != nil {
		return fmt.Errorf("failed to hash: %w", err)
	}

	key := dedup.MakeKey(hash, date)
	if !seen.Add(key) {
		first := keptAs[key]
		summary.LogDuplicate(item.Path, first)
		logger.LogDuplicate(item.Path, first)
		htmlReport.AddDuplicate(item.Path, first)
		return nil
	}

	actualDest, bytes, err := copier.CopyWithSidecar(ctx, item.Path, sidecarPath, destPath)
	if err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}
	keptAs[key] = actualDest

	if dateSource == meta.SourceNone {
		summary.LogReview(item.Path, actualDest, "no usable date source")
		logger.LogReview(item.Path, actualDest, "no usable date source")
	} else {
		summary.LogCopy(item.Path, actualDest, string(dateSource), bytes)
		logger.LogCopy(item.Path, actualDest, item.Album, string(dateSource), bytes)
	}

	linker.Record(item.Album, actualDest)
	reportItem(htmlReport, item, mediaName, actualDest, date, dateSource, sc)

	return nil
}

// reportItem records a migrated (or already-present) item in the HTML
// report. Resumed items go through here too so a restarted run still
// produces complete folder and album pages.
func reportItem(htmlReport *report.HTMLReport, item scan.MediaItem, mediaName, destPath string,
	date time.Time, dateSource meta.Source, sc *sidecar.Sidecar) {

	htmlReport.AddItem(report.Item{
		Name:       mediaName,
		SrcPath:    item.Path,
		DestPath:   destPath,
		Album:      item.Album,
		Folder:     plan.Folder(date),
		DateSource: string(dateSource),
		Date:       date,
		Details:    meta.ExtractDetails(item.Path, sc),
	}, !execute.IsGenericAlbum(item.Album))
}
