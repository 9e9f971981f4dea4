package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather"
)

func TestPartitionForUsesRecordTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	rec := weather.Record{City: "london", Timestamp: "2025-01-03T10:30:00Z"}
	assert.Equal(t, "date=2025-01-03", partitionFor(rec, now))

	// Naive timestamps partition by their own calendar day too.
	rec.Timestamp = "2024-12-31T23:59"
	assert.Equal(t, "date=2024-12-31", partitionFor(rec, now))
}

func TestPartitionForFallsBackToIngestionTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	rec := weather.Record{City: "london", Timestamp: "not-a-timestamp"}
	assert.Equal(t, "date=2025-06-15", partitionFor(rec, now))
}

func TestFileNameFor(t *testing.T) {
	assert.Equal(t, "london.jsonl", fileNameFor(weather.Record{City: "London"}))
	assert.Equal(t, "new york.jsonl", fileNameFor(weather.Record{City: " New York "}))
	assert.Equal(t, "unknown.jsonl", fileNameFor(weather.Record{}))
}

func TestCityFromFileName(t *testing.T) {
	city, ok := cityFromFileName("paris.jsonl")
	assert.True(t, ok)
	assert.Equal(t, "paris", city)

	_, ok = cityFromFileName("_SUCCESS")
	assert.False(t, ok)
}

func TestMatchesSince(t *testing.T) {
	since := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	newer := weather.Record{Timestamp: "2025-01-03T00:00:00Z"}
	older := weather.Record{Timestamp: "2025-01-01T00:00:00Z"}
	broken := weather.Record{Timestamp: "garbage"}

	assert.True(t, matchesSince(newer, since))
	assert.False(t, matchesSince(older, since))

	// Unparsable timestamps are excluded under an active filter and kept
	// without one.
	assert.False(t, matchesSince(broken, since))
	assert.True(t, matchesSince(broken, time.Time{}))
}

func TestEncodeLineFieldOrder(t *testing.T) {
	rec := weather.Record{
		City:      "london",
		Timestamp: "2025-01-01T10:00:00Z",
		TempC:     weather.Float64Ptr(4.5),
	}
	line, err := encodeLine(rec)
	assert.NoError(t, err)
	assert.Equal(t,
		`{"city":"london","timestamp":"2025-01-01T10:00:00Z","tempC":4.5,"humidity":null,"windKph":null,"conditions":null}`+"\n",
		string(line))
}
