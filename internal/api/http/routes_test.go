package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/storage"
	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local store: %v", err)
	}
	service := weather.NewService(store, nil, nil)

	app := fiber.New()
	RegisterRoutes(app, service)
	return app
}

// TestForecastDaysValidation verifies that the forecast endpoint enforces the
// expected 2-7 range for the `days` query parameter.
func TestForecastDaysValidation(t *testing.T) {
	app := newTestApp(t)

	for _, days := range []string{"1", "8"} {
		req := httptest.NewRequest(http.MethodGet, "/forecast?city=london&days="+days, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("days=%s: expected status %d, got %d", days, http.StatusBadRequest, resp.StatusCode)
		}
	}

	// Lookback below the minimum is rejected as well.
	req := httptest.NewRequest(http.MethodGet, "/forecast?city=london&days=3&lookback=2", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestForecastWithoutDataReturns404(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/forecast?city=london&days=3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestHealthReportsStorageType(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Status  string `json:"status"`
		Storage string `json:"storage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "ok" || body.Storage != "local" {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestIngestStoresBatch(t *testing.T) {
	app := newTestApp(t)

	payload := `{"records":[
		{"city":"London","timestamp":"2025-01-01T10:00:00Z","tempC":4.2,"humidity":80,"windKph":10,"conditions":"overcast"},
		{"city":"Paris","timestamp":"2025-01-01T11:00:00Z","tempC":7.1,"humidity":null,"windKph":null,"conditions":null}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Count   int    `json:"count"`
		BatchID string `json:"batch_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("expected count 2, got %d", body.Count)
	}
	if body.BatchID == "" {
		t.Fatal("expected a batch id")
	}

	// The stored cities come back lowercased and sorted.
	req = httptest.NewRequest(http.MethodGet, "/cities", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var cities struct {
		Count  int      `json:"count"`
		Cities []string `json:"cities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cities); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if cities.Count != 2 || cities.Cities[0] != "london" || cities.Cities[1] != "paris" {
		t.Fatalf("unexpected cities body: %+v", cities)
	}
}

func TestIngestRejectsEmptyBatch(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{"records":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/stats?city=london&days=7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		RecordCount int      `json:"record_count"`
		AvgTempC    *float64 `json:"avg_tempC"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.RecordCount != 0 || body.AvgTempC != nil {
		t.Fatalf("expected empty stats, got %+v", body)
	}
}

func TestHistoryRangeValidation(t *testing.T) {
	app := newTestApp(t)

	// A range query with only one bound is a client error.
	req := httptest.NewRequest(http.MethodGet, "/history?city=london&start=2025-01-01", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
