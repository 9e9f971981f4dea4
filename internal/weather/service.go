package weather

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Service orchestrates the upstream source and the partitioned store:
// ingest, history, statistics, and forecasting.
type Service struct {
	store  Store
	source Source
	log    *logrus.Logger
}

// NewService creates a new Service. The source may be nil when no upstream
// fetching is needed (tests, offline ingest-only deployments).
func NewService(store Store, source Source, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		store:  store,
		source: source,
		log:    log,
	}
}

// StorageType reports the active backend identity for health checks.
func (s *Service) StorageType() string {
	return s.store.Type()
}

// Cities returns the distinct stored city keys, sorted ascending.
func (s *Service) Cities() ([]string, error) {
	return s.store.ListCities()
}

// Ingest writes each record individually and returns the stored count. City
// keys are canonicalized before writing; a mid-batch failure returns the
// count written so far alongside the error.
func (s *Service) Ingest(records []Record) (int, error) {
	stored := 0
	for _, rec := range records {
		rec.City = CanonicalCity(rec.City)
		if err := s.store.WriteRecord(rec); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

// FetchCurrent retrieves current conditions from the upstream source and
// persists the observation.
func (s *Service) FetchCurrent(ctx context.Context, city string) (Record, error) {
	rec, err := s.source.Current(ctx, city)
	if err != nil {
		return Record{}, err
	}
	if err := s.store.WriteRecord(rec); err != nil {
		return Record{}, err
	}
	s.log.WithFields(logrus.Fields{
		"city":      rec.City,
		"timestamp": rec.Timestamp,
	}).Debug("stored current conditions")
	return rec, nil
}

// FetchPast retrieves the hourly series for the last days days and persists
// every observation, returning the stored count.
func (s *Service) FetchPast(ctx context.Context, city string, days int) (int, error) {
	records, err := s.source.Past(ctx, city, days)
	if err != nil {
		return 0, err
	}
	return s.Ingest(records)
}

// FetchHistorical retrieves an archival hourly series for the inclusive
// [start, end] date range and persists every observation.
func (s *Service) FetchHistorical(ctx context.Context, city, start, end string) (int, error) {
	if start == "" || end == "" {
		return 0, Validationf("start and end dates are required for historical mode")
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return 0, Validationf("invalid start date %q, expected YYYY-MM-DD", start)
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return 0, Validationf("invalid end date %q, expected YYYY-MM-DD", end)
	}
	records, err := s.source.Historical(ctx, city, start, end)
	if err != nil {
		return 0, err
	}
	return s.Ingest(records)
}

// Stats summarizes records newer than now minus days, optionally filtered by
// city. An empty result set yields count 0 and all-nil metrics.
func (s *Service) Stats(city string, days int) (Stats, error) {
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	records, err := s.store.ReadRecords(ReadFilter{
		City:  CanonicalCity(city),
		Since: since,
	})
	if err != nil {
		return Stats{}, err
	}

	stats := Summarize(records)
	stats.City = cityOrAll(city)
	stats.PeriodDays = days
	return stats, nil
}

// HistoryQuery selects stored records either by recency (Days) or by an
// inclusive [Start, End] calendar-day window when both dates are given.
type HistoryQuery struct {
	City  string
	Days  int
	Start string // YYYY-MM-DD
	End   string // YYYY-MM-DD
}

// History is a filtered record set sorted descending by timestamp string.
type History struct {
	City    string   `json:"city"`
	Days    int      `json:"days,omitempty"`
	Start   string   `json:"start,omitempty"`
	End     string   `json:"end,omitempty"`
	Count   int      `json:"count"`
	Records []Record `json:"records"`
}

// History returns stored records for the query. A window with no data
// returns an empty set, not an error.
func (s *Service) History(q HistoryQuery) (History, error) {
	filter := ReadFilter{City: CanonicalCity(q.City)}
	var endExclusive time.Time

	if q.Start != "" || q.End != "" {
		if q.Start == "" || q.End == "" {
			return History{}, Validationf("start and end dates are required for a range query")
		}
		start, err := time.Parse("2006-01-02", q.Start)
		if err != nil {
			return History{}, Validationf("invalid start date %q, expected YYYY-MM-DD", q.Start)
		}
		end, err := time.Parse("2006-01-02", q.End)
		if err != nil {
			return History{}, Validationf("invalid end date %q, expected YYYY-MM-DD", q.End)
		}
		if end.Before(start) {
			return History{}, Validationf("end date must not be before start date")
		}
		filter.Since = start
		// End-of-day inclusive: exclude only the day after End.
		endExclusive = end.AddDate(0, 0, 1)
	} else {
		filter.Since = time.Now().Add(-time.Duration(q.Days) * 24 * time.Hour)
	}

	records, err := s.store.ReadRecords(filter)
	if err != nil {
		return History{}, err
	}

	if !endExclusive.IsZero() {
		kept := records[:0]
		for _, rec := range records {
			ts, err := ParseTimestamp(rec.Timestamp)
			if err != nil {
				continue
			}
			if ts.Before(endExclusive) {
				kept = append(kept, rec)
			}
		}
		records = kept
	}

	// Lexical descending order on the timestamp string; matches chronological
	// order as long as stored timestamps share one precision convention.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})

	return History{
		City:    cityOrAll(q.City),
		Days:    q.Days,
		Start:   q.Start,
		End:     q.End,
		Count:   len(records),
		Records: records,
	}, nil
}

// Forecast predicts the next days days for a city with a linear
// extrapolation over per-day means of the most recent lookback days.
func (s *Service) Forecast(city string, days, lookback int) (ForecastResult, error) {
	if days < 2 || days > 7 {
		return ForecastResult{}, Validationf("days must be between 2 and 7")
	}
	if lookback < 3 {
		return ForecastResult{}, Validationf("lookback should be at least 3 days")
	}

	window := lookback
	if days > window {
		window = days
	}
	since := time.Now().Add(-time.Duration(window+5) * 24 * time.Hour)

	records, err := s.store.ReadRecords(ReadFilter{
		City:  CanonicalCity(city),
		Since: since,
	})
	if err != nil {
		return ForecastResult{}, err
	}
	if len(records) == 0 {
		return ForecastResult{}, fmt.Errorf("no stored data available for forecast: %w", ErrNotFound)
	}

	series := buildDailySeries(records, lookback)
	if series.days == 0 {
		return ForecastResult{}, fmt.Errorf("insufficient numeric data for forecast: %w", ErrNotFound)
	}
	if len(series.temp) < 2 && len(series.humid) < 2 && len(series.wind) < 2 {
		return ForecastResult{}, Validationf("need at least two days of data for forecasting")
	}

	now := time.Now()
	return ForecastResult{
		City:         CanonicalCity(city),
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		LookbackDays: series.days,
		ForecastDays: days,
		Data:         assembleForecast(series, days, now),
	}, nil
}

func cityOrAll(city string) string {
	if city == "" {
		return "all"
	}
	return CanonicalCity(city)
}
