package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/franz/photo-janitor/internal/util"
)

// writeInterval is how many recorded items trigger an incremental
// rewrite of the report pages. Keeps the report useful mid-run on
// large archives without rewriting it per file.
const writeInterval = 200

// reportDirName is the subdirectory of the output root the HTML pages
// live in.
const reportDirName = "report"

// Item is one media file as shown in the report.
type Item struct {
	Name       string
	SrcPath    string
	DestPath   string
	Album      string
	Folder     string
	DateSource string
	Date       time.Time
	Details    map[string]string
}

// DuplicatePair records a skipped duplicate and the copy that won.
type DuplicatePair struct {
	Skipped string
	KeptAs  string
}

// HTMLReport accumulates items and renders a small multi-page site:
// an index dashboard plus one page per destination folder and per
// user-created album.
type HTMLReport struct {
	outputRoot string
	summary    *Summary

	// DryRun stamps every page with a preview banner. The report is
	// still written on dry runs so the outcome is browsable.
	DryRun bool

	folders    map[string][]Item
	albums     map[string][]Item
	duplicates []DuplicatePair

	sinceWrite int
}

// NewHTMLReport creates an HTML report writer rooted at outputRoot.
func NewHTMLReport(outputRoot string, summary *Summary) *HTMLReport {
	return &HTMLReport{
		outputRoot: outputRoot,
		summary:    summary,
		folders:    make(map[string][]Item),
		albums:     make(map[string][]Item),
	}
}

// AddItem records a copied item under its destination folder and, for
// user-created albums, under its album page.
func (r *HTMLReport) AddItem(item Item, userAlbum bool) {
	r.folders[item.Folder] = append(r.folders[item.Folder], item)
	if userAlbum && item.Album != "" {
		r.albums[item.Album] = append(r.albums[item.Album], item)
	}
	r.sinceWrite++
}

// AddDuplicate records a skipped duplicate for the duplicates page.
func (r *HTMLReport) AddDuplicate(skippedPath, keptAs string) {
	r.duplicates = append(r.duplicates, DuplicatePair{Skipped: skippedPath, KeptAs: keptAs})
	r.sinceWrite++
}

// MaybeWrite rewrites the report pages once enough items accumulated
// since the last write. Write errors are logged and swallowed; the
// report never aborts a migration.
func (r *HTMLReport) MaybeWrite() {
	if r.sinceWrite < writeInterval {
		return
	}
	if err := r.Write(); err != nil {
		util.WarnLog("Failed to write HTML report: %v", err)
	}
}

// Write renders every page of the report.
func (r *HTMLReport) Write() error {
	r.sinceWrite = 0

	reportDir := filepath.Join(r.outputRoot, reportDirName)
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := r.writeIndex(reportDir); err != nil {
		return err
	}
	for folder, items := range r.folders {
		page := "folder-" + Slugify(folder) + ".html"
		if err := r.writeItemPage(filepath.Join(reportDir, page), "Folder "+folder, items); err != nil {
			return err
		}
	}
	for album, items := range r.albums {
		page := "album-" + Slugify(album) + ".html"
		if err := r.writeItemPage(filepath.Join(reportDir, page), "Album "+album, items); err != nil {
			return err
		}
	}
	if err := r.writeDuplicates(reportDir); err != nil {
		return err
	}
	return r.writeErrors(reportDir)
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 4px 10px; border-bottom: 1px solid #ddd; }
th { background: #f4f4f4; }
.nav { margin-bottom: 1.5em; }
.nav a { margin-right: 1em; }
.counter { font-size: 1.4em; font-weight: bold; }
.detail { color: #666; font-size: 0.85em; }
.dryrun { background: #fff3cd; border: 1px solid #e0c76b; padding: 8px 12px; font-weight: bold; }
</style>
</head>
<body>
<div class="nav"><a href="index.html">Overview</a><a href="duplicates.html">Duplicates</a><a href="errors.html">Errors</a></div>
{{if .DryRun}}<p class="dryrun">[DRY RUN] Preview only. No files were copied.</p>{{end}}
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

type page struct {
	Title  string
	DryRun bool
	Body   template.HTML
}

func (r *HTMLReport) renderPage(path, title string, body template.HTML) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report page: %w", err)
	}
	defer f.Close()
	return pageTmpl.Execute(f, page{Title: title, DryRun: r.DryRun, Body: body})
}

var indexBodyTmpl = template.Must(template.New("index").Parse(`
<p class="counter">{{.Copied}} copied &middot; {{.Dupes}} duplicates &middot; {{.Review}} need review</p>
<h2>Date sources</h2>
<table><tr><th>Source</th><th>Count</th></tr>
{{range .Sources}}<tr><td>{{.Name}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
<h2>Folders</h2>
<table><tr><th>Folder</th><th>Items</th></tr>
{{range .Folders}}<tr><td><a href="folder-{{.Slug}}.html">{{.Name}}</a></td><td>{{.Count}}</td></tr>
{{end}}</table>
{{if .Albums}}<h2>Albums</h2>
<table><tr><th>Album</th><th>Items</th></tr>
{{range .Albums}}<tr><td><a href="album-{{.Slug}}.html">{{.Name}}</a></td><td>{{.Count}}</td></tr>
{{end}}</table>{{end}}
`))

type linkRow struct {
	Name  string
	Slug  string
	Count int
}

type sourceRow struct {
	Name  string
	Count int
}

func (r *HTMLReport) writeIndex(reportDir string) error {
	var sources []sourceRow
	if r.summary != nil {
		for name, count := range r.summary.DateSources {
			sources = append(sources, sourceRow{Name: name, Count: count})
		}
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Count > sources[j].Count })

	folders := linkRows(r.folders)
	albums := linkRows(r.albums)

	data := struct {
		Copied, Dupes, Review int
		Sources               []sourceRow
		Folders, Albums       []linkRow
	}{Sources: sources, Folders: folders, Albums: albums}
	if r.summary != nil {
		data.Copied = r.summary.Copied
		data.Dupes = r.summary.SkippedDupes
		data.Review = r.summary.NeedsReview
	}

	var b strings.Builder
	if err := indexBodyTmpl.Execute(&b, data); err != nil {
		return err
	}
	return r.renderPage(filepath.Join(reportDir, "index.html"), "Takeout Migration Report", template.HTML(b.String()))
}

func linkRows(m map[string][]Item) []linkRow {
	rows := make([]linkRow, 0, len(m))
	for name, items := range m {
		rows = append(rows, linkRow{Name: name, Slug: Slugify(name), Count: len(items)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

var itemsBodyTmpl = template.Must(template.New("items").Parse(`
<table><tr><th>File</th><th>Date</th><th>Source</th><th>Album</th><th>Details</th></tr>
{{range .}}<tr>
<td>{{.Name}}</td>
<td>{{if .Date.IsZero}}&mdash;{{else}}{{.Date.Format "2006-01-02 15:04"}}{{end}}</td>
<td>{{.DateSource}}</td>
<td>{{.Album}}</td>
<td class="detail">{{.DetailText}}</td>
</tr>
{{end}}</table>
`))

type itemView struct {
	Item
	DetailText string
}

func (r *HTMLReport) writeItemPage(path, title string, items []Item) error {
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		views = append(views, itemView{Item: it, DetailText: detailText(it.Details)})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })

	var b strings.Builder
	if err := itemsBodyTmpl.Execute(&b, views); err != nil {
		return err
	}
	return r.renderPage(path, title, template.HTML(b.String()))
}

func detailText(d map[string]string) string {
	if len(d) == 0 {
		return ""
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+d[k])
	}
	return strings.Join(parts, " | ")
}

var duplicatesBodyTmpl = template.Must(template.New("dupes").Parse(`
<table><tr><th>Skipped file</th><th>Kept as</th></tr>
{{range .}}<tr><td>{{.Skipped}}</td><td>{{.KeptAs}}</td></tr>
{{end}}</table>
`))

func (r *HTMLReport) writeDuplicates(reportDir string) error {
	var b strings.Builder
	if err := duplicatesBodyTmpl.Execute(&b, r.duplicates); err != nil {
		return err
	}
	return r.renderPage(filepath.Join(reportDir, "duplicates.html"), "Skipped Duplicates", template.HTML(b.String()))
}

var errorsBodyTmpl = template.Must(template.New("errors").Parse(`
<table><tr><th>Error</th></tr>
{{range .}}<tr><td>{{.}}</td></tr>
{{end}}</table>
`))

func (r *HTMLReport) writeErrors(reportDir string) error {
	var lines []string
	if r.summary != nil {
		lines = r.summary.ErrorLines()
	}
	var b strings.Builder
	if err := errorsBodyTmpl.Execute(&b, lines); err != nil {
		return err
	}
	return r.renderPage(filepath.Join(reportDir, "errors.html"), "Errors", template.HTML(b.String()))
}

// Slugify turns a folder or album name into a safe filename fragment.
// Accents are decomposed and dropped, anything outside [a-z0-9]
// becomes a dash.
func Slugify(name string) string {
	decomposed := norm.NFKD.String(name)
	var b strings.Builder
	lastDash := false
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			lastDash = false
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
