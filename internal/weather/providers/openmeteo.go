package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather"
)

// OpenMeteo implements weather.Source against the Open-Meteo APIs
// (geocoding, forecast, and the ERA5 archive). No API key is required.
type OpenMeteo struct {
	geocodeURL  string
	forecastURL string
	archiveURL  string
	http        *resilientClient
}

func NewOpenMeteo(client *http.Client) *OpenMeteo {
	return &OpenMeteo{
		geocodeURL:  "https://geocoding-api.open-meteo.com/v1/search",
		forecastURL: "https://api.open-meteo.com/v1/forecast",
		archiveURL:  "https://archive-api.open-meteo.com/v1/era5",
		http:        newResilientClient(client, "open-meteo"),
	}
}

// geocode resolves a city name to coordinates and its canonical name.
func (p *OpenMeteo) geocode(ctx context.Context, city string) (lat, lon float64, name string, err error) {
	values := url.Values{}
	values.Set("name", city)
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")

	var payload struct {
		Results []struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
			Name      string   `json:"name"`
		} `json:"results"`
	}
	if err := p.http.getJSON(ctx, p.geocodeURL+"?"+values.Encode(), &payload); err != nil {
		return 0, 0, "", &weather.UpstreamError{Service: "geocoding", Cause: err}
	}
	if len(payload.Results) == 0 {
		return 0, 0, "", fmt.Errorf("city %q: %w", city, weather.ErrNotFound)
	}

	loc := payload.Results[0]
	if loc.Latitude == nil || loc.Longitude == nil {
		return 0, 0, "", fmt.Errorf("city %q: %w", city, weather.ErrNotFound)
	}
	name = loc.Name
	if name == "" {
		name = city
	}
	return *loc.Latitude, *loc.Longitude, name, nil
}

type hourlyPayload struct {
	Time        []string   `json:"time"`
	Temperature []*float64 `json:"temperature_2m"`
	Humidity    []*float64 `json:"relative_humidity_2m"`
	WindSpeed   []*float64 `json:"wind_speed_10m"`
	WeatherCode []*int     `json:"weather_code"`
}

// Current fetches current conditions for a city.
func (p *OpenMeteo) Current(ctx context.Context, city string) (weather.Record, error) {
	lat, lon, name, err := p.geocode(ctx, city)
	if err != nil {
		return weather.Record{}, err
	}

	values := url.Values{}
	values.Set("latitude", formatCoord(lat))
	values.Set("longitude", formatCoord(lon))
	values.Set("current", "temperature_2m,wind_speed_10m,relative_humidity_2m,weather_code")

	var payload struct {
		Current struct {
			Time        string   `json:"time"`
			Temperature *float64 `json:"temperature_2m"`
			Humidity    *float64 `json:"relative_humidity_2m"`
			WindSpeed   *float64 `json:"wind_speed_10m"`
			WeatherCode *int     `json:"weather_code"`
		} `json:"current"`
	}
	if err := p.http.getJSON(ctx, p.forecastURL+"?"+values.Encode(), &payload); err != nil {
		return weather.Record{}, &weather.UpstreamError{Service: "forecast", Cause: err}
	}

	ts := payload.Current.Time
	if ts == "" {
		ts = time.Now().UTC().Format("2006-01-02T15:04:05")
	}
	return weather.NewRecord(
		name,
		ts,
		payload.Current.Temperature,
		payload.Current.Humidity,
		payload.Current.WindSpeed,
		describeWeatherCode(payload.Current.WeatherCode),
	), nil
}

// Past fetches the hourly series for the last 1..92 days.
func (p *OpenMeteo) Past(ctx context.Context, city string, days int) ([]weather.Record, error) {
	lat, lon, name, err := p.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	if days < 1 {
		days = 1
	}
	if days > 92 {
		days = 92
	}

	values := url.Values{}
	values.Set("latitude", formatCoord(lat))
	values.Set("longitude", formatCoord(lon))
	values.Set("past_days", strconv.Itoa(days))
	values.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code")

	var payload struct {
		Hourly hourlyPayload `json:"hourly"`
	}
	if err := p.http.getJSON(ctx, p.forecastURL+"?"+values.Encode(), &payload); err != nil {
		return nil, &weather.UpstreamError{Service: "past weather", Cause: err}
	}
	return recordsFromHourly(name, payload.Hourly, ""), nil
}

// Historical fetches an ERA5 archival hourly series for [start, end].
func (p *OpenMeteo) Historical(ctx context.Context, city, start, end string) ([]weather.Record, error) {
	lat, lon, name, err := p.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("latitude", formatCoord(lat))
	values.Set("longitude", formatCoord(lon))
	values.Set("start_date", start)
	values.Set("end_date", end)
	values.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m")

	var payload struct {
		Hourly hourlyPayload `json:"hourly"`
	}
	if err := p.http.getJSON(ctx, p.archiveURL+"?"+values.Encode(), &payload); err != nil {
		return nil, &weather.UpstreamError{Service: "historical weather", Cause: err}
	}
	return recordsFromHourly(name, payload.Hourly, "historical (ERA5)"), nil
}

// recordsFromHourly flattens a columnar hourly payload into records, one per
// timestamp. Metric columns shorter than the time column yield nil values.
func recordsFromHourly(city string, hourly hourlyPayload, conditions string) []weather.Record {
	records := make([]weather.Record, 0, len(hourly.Time))
	for i, ts := range hourly.Time {
		cond := conditions
		if cond == "" {
			cond = describeWeatherCode(intAt(hourly.WeatherCode, i))
		}
		records = append(records, weather.NewRecord(
			city,
			ts,
			floatAt(hourly.Temperature, i),
			floatAt(hourly.Humidity, i),
			floatAt(hourly.WindSpeed, i),
			cond,
		))
	}
	return records
}

func floatAt(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func intAt(values []*int, i int) *int {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
