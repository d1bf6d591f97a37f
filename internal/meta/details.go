package meta

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Decoders for reading image dimensions.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/franz/photo-janitor/internal/sidecar"
)

// Details carries per-item display metadata for the HTML report
// tooltips. Missing fields are simply absent; every extraction step
// degrades independently.
type Details map[string]string

// detailImageExtensions gates which files get opened for EXIF and
// dimension probing. Wider than the EXIF date set: HEIC and WebP carry
// useful sidecar-free metadata even when Go cannot decode them.
var detailImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".png":  true,
	".heic": true,
	".webp": true,
}

// ExtractDetails gathers tooltip metadata from the image itself and
// from the sidecar. Never returns an error; whatever could be read is
// returned.
func ExtractDetails(mediaPath string, sc *sidecar.Sidecar) Details {
	d := make(Details)
	if detailImageExtensions[strings.ToLower(filepath.Ext(mediaPath))] {
		extractImageDetails(mediaPath, d)
	}
	extractSidecarDetails(sc, d)
	return d
}

func extractImageDetails(mediaPath string, d Details) {
	f, err := os.Open(mediaPath)
	if err != nil {
		return
	}
	defer f.Close()

	if cfg, _, err := image.DecodeConfig(f); err == nil {
		d["dimensions"] = fmt.Sprintf("%d×%d", cfg.Width, cfg.Height)
	}

	if _, err := f.Seek(0, 0); err != nil {
		return
	}
	x, err := exif.Decode(f)
	if err != nil {
		return
	}

	maker := exifString(x, exif.Make)
	model := exifString(x, exif.Model)
	if camera := strings.TrimSpace(maker + " " + model); camera != "" {
		d["camera"] = camera
	}

	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if iso, err := tag.Int(0); err == nil && iso > 0 {
			d["iso"] = fmt.Sprintf("ISO %d", iso)
		}
	}
	if tag, err := x.Get(exif.FocalLength); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			d["focal_length"] = fmt.Sprintf("%.0fmm", float64(num)/float64(den))
		}
	}
	if tag, err := x.Get(exif.FNumber); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			d["aperture"] = fmt.Sprintf("f/%.1f", float64(num)/float64(den))
		}
	}
	if lat, long, err := x.LatLong(); err == nil {
		d["gps"] = fmt.Sprintf("%.4f, %.4f", lat, long)
	}
}

func extractSidecarDetails(sc *sidecar.Sidecar, d Details) {
	if sc == nil {
		return
	}

	if t, ok := sc.PhotoTaken.Time(); ok {
		d["photo_taken"] = t.Format("2006-01-02 15:04:05") + " UTC"
	}
	if t, ok := sc.CreationTime.Time(); ok {
		d["created"] = t.Format("2006-01-02 15:04:05") + " UTC"
	}
	if geo := sc.GeoData; geo != nil && (geo.Latitude != 0 || geo.Longitude != 0) {
		d["geo"] = fmt.Sprintf("%.4f, %.4f", geo.Latitude, geo.Longitude)
	}
	var names []string
	for _, p := range sc.People {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	if len(names) > 0 {
		d["people"] = strings.Join(names, ", ")
	}
	if sc.Description != "" {
		d["description"] = truncate(sc.Description, 120)
	}
	if sc.URL != "" {
		d["google_url"] = sc.URL
	}
	if sc.Origin != nil && sc.Origin.MobileUpload != nil && sc.Origin.MobileUpload.DeviceType != "" {
		d["device_type"] = sc.Origin.MobileUpload.DeviceType
	}
}

func exifString(x *exif.Exif, field exif.FieldName) string {
	tag, err := x.Get(field)
	if err != nil {
		return ""
	}
	val, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(val)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
