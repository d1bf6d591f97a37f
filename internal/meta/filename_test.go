package meta

import (
	"testing"
	"time"
)

func TestDateFromFilename(t *testing.T) {
	testCases := []struct {
		name     string
		filename string
		expected time.Time
		ok       bool
	}{
		{
			name:     "camera format with time",
			filename: "IMG_20200510_204759.jpg",
			expected: time.Date(2020, 5, 10, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "video camera format",
			filename: "VID_20191224_183000.mp4",
			expected: time.Date(2019, 12, 24, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "dashed screenshot format",
			filename: "Screenshot 2021-03-15 10-30-45.png",
			expected: time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "dashed with underscore separator",
			filename: "2021-03-15_10-30-45.jpg",
			expected: time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "bare date",
			filename: "20180101.jpg",
			expected: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "invalid month never matches",
			filename: "IMG_20201301_120000.jpg",
			ok:       false,
		},
		{
			name:     "invalid day never matches",
			filename: "20200532.jpg",
			ok:       false,
		},
		{
			name:     "year below lower bound",
			filename: "19650510.jpg",
			ok:       false,
		},
		{
			name:     "year above upper bound",
			filename: "20450510.jpg",
			ok:       false,
		},
		{
			name:     "no digits at all",
			filename: "holiday.jpg",
			ok:       false,
		},
		{
			name:     "time of day is discarded",
			filename: "IMG_20200510_235959.jpg",
			expected: time.Date(2020, 5, 10, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DateFromFilename(tc.filename)
			if ok != tc.ok {
				t.Fatalf("DateFromFilename(%q) ok = %v, want %v", tc.filename, ok, tc.ok)
			}
			if ok && !got.Equal(tc.expected) {
				t.Errorf("DateFromFilename(%q) = %v, want %v", tc.filename, got, tc.expected)
			}
		})
	}
}
