package weather

// Stats summarizes a filtered record set. Metrics without any numeric
// samples stay nil; an empty set yields count 0 and all-nil values, never an
// error.
type Stats struct {
	City        string   `json:"city"`
	PeriodDays  int      `json:"period_days"`
	RecordCount int      `json:"record_count"`
	AvgTempC    *float64 `json:"avg_tempC"`
	AvgHumidity *float64 `json:"avg_humidity"`
	AvgWindKph  *float64 `json:"avg_windKph"`
	MinTempC    *float64 `json:"min_tempC"`
	MaxTempC    *float64 `json:"max_tempC"`
}

// Summarize computes mean/min/max temperature, mean humidity, and mean wind
// over the given records, rounded to two decimals.
func Summarize(records []Record) Stats {
	stats := Stats{RecordCount: len(records)}

	var (
		temps, hums, winds []float64
	)
	for _, rec := range records {
		if rec.TempC != nil {
			temps = append(temps, *rec.TempC)
		}
		if rec.Humidity != nil {
			hums = append(hums, *rec.Humidity)
		}
		if rec.WindKph != nil {
			winds = append(winds, *rec.WindKph)
		}
	}

	stats.AvgTempC = roundedMean(temps)
	stats.AvgHumidity = roundedMean(hums)
	stats.AvgWindKph = roundedMean(winds)

	if len(temps) > 0 {
		minT, maxT := temps[0], temps[0]
		for _, v := range temps[1:] {
			if v < minT {
				minT = v
			}
			if v > maxT {
				maxT = v
			}
		}
		stats.MinTempC = Float64Ptr(Round2(minT))
		stats.MaxTempC = Float64Ptr(Round2(maxT))
	}
	return stats
}

// roundedMean returns the arithmetic mean rounded to two decimals, or nil
// for an empty sample set.
func roundedMean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Float64Ptr(Round2(sum / float64(len(values))))
}
