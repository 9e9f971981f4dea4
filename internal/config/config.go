package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig carries the full configuration surface. Every setting has a
// default that allows zero-config local operation.
type AppConfig struct {
	Port string

	// HTTPTimeout bounds outbound Open-Meteo calls. The storage layer
	// itself carries no timeout.
	HTTPTimeout time.Duration

	// HDFS cluster settings; the factory falls back to LocalDataDir when
	// the namenode is unreachable.
	HDFSNamenode string
	HDFSUser     string
	HDFSBasePath string

	LocalDataDir string

	// Collector settings.
	FetchInterval time.Duration
	Cities        []string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:         getenvDefault("PORT", "8080"),
		HDFSNamenode: getenvDefault("HDFS_NAMENODE", "localhost:9000"),
		HDFSUser:     getenvDefault("HDFS_USER", "hadoop"),
		HDFSBasePath: getenvDefault("HDFS_BASE_DIR", "/apps/weather"),
		LocalDataDir: getenvDefault("LOCAL_DATA_DIR", "data"),
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "20s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	intervalStr := getenvDefault("FETCH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	cfg.Cities = splitCities(os.Getenv("WEATHER_CITIES"))

	return cfg, nil
}

// splitCities parses a comma-separated city list, dropping empty entries.
func splitCities(raw string) []string {
	var cities []string
	for _, city := range strings.Split(raw, ",") {
		city = strings.TrimSpace(city)
		if city != "" {
			cities = append(cities, city)
		}
	}
	return cities
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
