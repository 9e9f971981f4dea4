package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-01T10:30:00Z", time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-01-01T10:30:00+02:00", time.Date(2025, 1, 1, 10, 30, 0, 0, time.FixedZone("", 2*3600))},
		{"2025-01-01T10:30:00", time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)},
		// Open-Meteo emits minute precision without a zone.
		{"2025-01-01T10:30", time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.True(t, got.Equal(tt.want), "input %q: got %v want %v", tt.in, got, tt.want)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestCanonicalCity(t *testing.T) {
	assert.Equal(t, "london", CanonicalCity(" London "))
	assert.Equal(t, "new york", CanonicalCity("New York"))
}

func TestNewRecordRoundsAndLowercases(t *testing.T) {
	rec := NewRecord("Paris", "2025-01-01T10:00:00Z",
		Float64Ptr(4.257), Float64Ptr(61.449), nil, "overcast")

	assert.Equal(t, "paris", rec.City)
	require.NotNil(t, rec.TempC)
	assert.Equal(t, 4.26, *rec.TempC)
	require.NotNil(t, rec.Humidity)
	assert.Equal(t, 61.45, *rec.Humidity)
	assert.Nil(t, rec.WindKph)
	require.NotNil(t, rec.Conditions)
	assert.Equal(t, "overcast", *rec.Conditions)
}
