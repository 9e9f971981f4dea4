package weather

import (
	"sort"
	"time"
)

// ForecastPoint is one predicted day. A metric with no usable samples across
// the whole lookback window stays nil for every day.
type ForecastPoint struct {
	Date     string   `json:"date"`
	TempC    *float64 `json:"tempC"`
	Humidity *float64 `json:"humidity"`
	WindKph  *float64 `json:"windKph"`
}

// ForecastResult is the ordered forecast starting at tomorrow.
type ForecastResult struct {
	City         string          `json:"city"`
	GeneratedAt  string          `json:"generated_at"`
	LookbackDays int             `json:"lookback_days"`
	ForecastDays int             `json:"forecast_days"`
	Data         []ForecastPoint `json:"data"`
}

// dailySeries holds one mean-per-calendar-day value series per metric over
// the lookback window. A day without samples for a metric contributes no
// point to that metric's series (not zero).
type dailySeries struct {
	days  int // number of distinct days with any data, after the lookback cut
	temp  []float64
	humid []float64
	wind  []float64
}

// buildDailySeries buckets numeric samples by the calendar day of their own
// timestamp, keeps the most recent lookback days with any data, and reduces
// each bucket to per-metric means rounded to two decimals.
func buildDailySeries(records []Record, lookback int) dailySeries {
	type bucket struct {
		temp, humid, wind []float64
	}
	buckets := make(map[string]*bucket)

	for _, rec := range records {
		ts, err := ParseTimestamp(rec.Timestamp)
		if err != nil {
			continue
		}
		day := ts.Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		if rec.TempC != nil {
			b.temp = append(b.temp, *rec.TempC)
		}
		if rec.Humidity != nil {
			b.humid = append(b.humid, *rec.Humidity)
		}
		if rec.WindKph != nil {
			b.wind = append(b.wind, *rec.WindKph)
		}
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)
	if lookback > 0 && len(days) > lookback {
		days = days[len(days)-lookback:]
	}

	var series dailySeries
	series.days = len(days)
	for _, day := range days {
		b := buckets[day]
		if m := roundedMean(b.temp); m != nil {
			series.temp = append(series.temp, *m)
		}
		if m := roundedMean(b.humid); m != nil {
			series.humid = append(series.humid, *m)
		}
		if m := roundedMean(b.wind); m != nil {
			series.wind = append(series.wind, *m)
		}
	}
	return series
}

// linearForecast fits ordinary least squares value = intercept + slope*index
// over the day-index sequence and extrapolates the next periods points. A
// single-point series repeats flat; an empty series yields nils.
func linearForecast(values []float64, periods int) []*float64 {
	out := make([]*float64, periods)
	if len(values) == 0 {
		return out
	}
	if len(values) == 1 {
		for i := range out {
			out[i] = Float64Ptr(Round2(values[0]))
		}
		return out
	}

	n := float64(len(values))
	var meanX, meanY float64
	for i, y := range values {
		meanX += float64(i)
		meanY += y
	}
	meanX /= n
	meanY /= n

	var num, denom float64
	for i, y := range values {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		denom += dx * dx
	}
	slope := 0.0
	if denom != 0 {
		slope = num / denom
	}
	intercept := meanY - slope*meanX

	for i := range out {
		idx := float64(len(values) + i)
		out[i] = Float64Ptr(Round2(intercept + slope*idx))
	}
	return out
}

// assembleForecast extrapolates each metric series and lays the points out
// starting at tomorrow, evaluated at call time.
func assembleForecast(series dailySeries, days int, now time.Time) []ForecastPoint {
	temp := linearForecast(series.temp, days)
	humid := linearForecast(series.humid, days)
	wind := linearForecast(series.wind, days)

	tomorrow := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	points := make([]ForecastPoint, 0, days)
	for i := 0; i < days; i++ {
		points = append(points, ForecastPoint{
			Date:     tomorrow.AddDate(0, 0, i).Format("2006-01-02"),
			TempC:    temp[i],
			Humidity: humid[i],
			WindKph:  wind[i],
		})
	}
	return points
}
