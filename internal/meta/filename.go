package meta

import (
	"regexp"
	"strconv"
	"time"
)

// Filename year bounds. The upper bound is deliberately narrow: the
// archives this tool targets end well before 2030, and an eight-digit
// number past that is more likely a serial than a date.
const (
	minFilenameYear = 1970
	maxFilenameYear = 2030
)

// filenameDatePatterns are tried most specific first. Month, day, hour,
// minute and second components are validated in the pattern itself so a
// string like 20201301 never half-matches as a date.
var filenameDatePatterns = []*regexp.Regexp{
	// YYYYMMDD_HHMMSS (the common camera format: IMG_20200510_204759)
	regexp.MustCompile(`(\d{4})(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])_((?:[01]\d|2[0-3])([0-5]\d)([0-5]\d))`),
	// YYYY-MM-DD_HH-MM-SS or YYYY-MM-DD HH-MM-SS
	regexp.MustCompile(`(\d{4})-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])[_ -]((?:[01]\d|2[0-3])-([0-5]\d)-([0-5]\d))`),
	// bare YYYYMMDD
	regexp.MustCompile(`(\d{4})(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])`),
}

// DateFromFilename extracts a calendar date from a media filename.
// Time-of-day digits participate in matching but are discarded; the
// result is always midnight of the matched day. Years outside
// [1970, 2030] are rejected.
func DateFromFilename(filename string) (time.Time, bool) {
	for _, pattern := range filenameDatePatterns {
		m := pattern.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if year < minFilenameYear || year > maxFilenameYear {
			continue
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
