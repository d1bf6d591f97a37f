package meta

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifExtensions are the image extensions that can carry EXIF data.
// Everything else (videos in particular) skips straight past the EXIF
// step of the cascade.
var exifExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".png":  true,
}

// exifTimeLayout is the fixed "date-colon-time" format EXIF uses.
const exifTimeLayout = "2006:01:02 15:04:05"

// exifDateFields are tried in priority order: original capture time,
// digitized time, then the generic modification stamp.
var exifDateFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// IsExifCapable reports whether the file's extension is in the EXIF
// set at all.
func IsExifCapable(mediaPath string) bool {
	return exifExtensions[strings.ToLower(filepath.Ext(mediaPath))]
}

// DateFromExif reads the embedded capture time from an image file.
// Pre-1970 values are sentinel/garbage dates and rejected. Any decode
// or parse failure simply reports false; the cascade moves on.
func DateFromExif(mediaPath string) (time.Time, bool) {
	if !IsExifCapable(mediaPath) {
		return time.Time{}, false
	}

	f, err := os.Open(mediaPath)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}

	for _, field := range exifDateFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		val, err := tag.StringVal()
		if err != nil || val == "" {
			continue
		}
		t, err := time.Parse(exifTimeLayout, val)
		if err != nil {
			continue
		}
		if t.Year() >= 1970 {
			return t, true
		}
	}

	return time.Time{}, false
}
