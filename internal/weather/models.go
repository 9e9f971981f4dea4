package weather

import (
	"math"
	"strings"
	"time"
)

// Record is a single normalized weather observation. Records are immutable
// once written; corrections are appended as new records and duplicate
// timestamps for the same city are retained.
//
// Field order is the persisted JSONL contract and must not change.
type Record struct {
	City       string   `json:"city"`
	Timestamp  string   `json:"timestamp"` // ISO-8601, timezone optional
	TempC      *float64 `json:"tempC"`
	Humidity   *float64 `json:"humidity"`
	WindKph    *float64 `json:"windKph"`
	Conditions *string  `json:"conditions"`
}

// CanonicalCity normalizes a city name into the key used for partition file
// names and filtering.
func CanonicalCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// timestampLayouts lists the accepted timestamp shapes, most specific first.
// Open-Meteo emits naive minute-precision timestamps ("2006-01-02T15:04"),
// ingest clients usually send RFC3339.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp, with or without a timezone.
// Naive timestamps are interpreted as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// NewRecord builds a storage-ready record with a lowercased city key and
// metric values rounded to two decimals.
func NewRecord(city, timestamp string, tempC, humidity, windKph *float64, conditions string) Record {
	rec := Record{
		City:      CanonicalCity(city),
		Timestamp: timestamp,
	}
	if tempC != nil {
		rec.TempC = Float64Ptr(Round2(*tempC))
	}
	if humidity != nil {
		rec.Humidity = Float64Ptr(Round2(*humidity))
	}
	if windKph != nil {
		rec.WindKph = Float64Ptr(Round2(*windKph))
	}
	if conditions != "" {
		rec.Conditions = &conditions
	}
	return rec
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}
