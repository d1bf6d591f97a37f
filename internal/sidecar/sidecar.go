package sidecar

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Sidecar is the parsed form of a Takeout JSON metadata record.
// Every field is optional; a record that fails to parse entirely is
// treated as if none of its fields were present.
type Sidecar struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	URL          string     `json:"url"`
	PhotoTaken   *Timestamp `json:"photoTakenTime"`
	CreationTime *Timestamp `json:"creationTime"`
	GeoData      *GeoData   `json:"geoData"`
	People       []Person   `json:"people"`
	Origin       *Origin    `json:"googlePhotosOrigin"`
}

// Timestamp is Takeout's timestamp object: a string-encoded count of
// Unix epoch seconds plus a human-readable rendering.
type Timestamp struct {
	Timestamp string `json:"timestamp"`
	Formatted string `json:"formatted"`
}

// GeoData holds the sidecar's geolocation block.
type GeoData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// Person is one entry of the sidecar's people list.
type Person struct {
	Name string `json:"name"`
}

// Origin describes where Google Photos ingested the item from.
type Origin struct {
	MobileUpload *MobileUpload `json:"mobileUpload"`
}

// MobileUpload carries the uploading device type, when present.
type MobileUpload struct {
	DeviceType string `json:"deviceType"`
}

// Time interprets the timestamp as whole Unix epoch seconds in UTC.
// Only strictly positive values are accepted; everything else reports false.
func (t *Timestamp) Time() (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(t.Timestamp, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}

// ParseFile reads and parses a sidecar JSON file.
func ParseFile(path string) (*Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar: %w", err)
	}
	var sc Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse sidecar: %w", err)
	}
	return &sc, nil
}

// ReadTitle returns the title field of a sidecar file, or "" if the file
// cannot be read or parsed. Index building must not fail on bad records.
func ReadTitle(path string) string {
	sc, err := ParseFile(path)
	if err != nil {
		return ""
	}
	return sc.Title
}
