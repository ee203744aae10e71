// Package config loads service settings from environment variables and
// defines the shared reference grids.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nightsat/nightlights-agg/internal/domain"
	"github.com/nightsat/nightlights-agg/internal/raster"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	RasterDir       string
	RegionsFile     string
	RegionAttribute string
	Product         string
	StartMonth      time.Time
	EndMonth        time.Time
	GridName        string

	RefreshInterval time.Duration
	RegionWorkers   int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka sink configuration.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	startMonth, err := parseMonthEnv("START_MONTH", "201204")
	if err != nil {
		return nil, err
	}
	endMonth, err := parseMonthEnv("END_MONTH", time.Now().UTC().Format("200601"))
	if err != nil {
		return nil, err
	}

	refreshInterval, err := parseDurationEnv("REFRESH_INTERVAL", "24h")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RasterDir:       envOrDefault("RASTER_DIR", "data/rasters"),
		RegionsFile:     envOrDefault("REGIONS_FILE", "data/regions.geojson"),
		RegionAttribute: envOrDefault("REGION_ATTRIBUTE", "district"),
		Product:         envOrDefault("PRODUCT", raster.ProductRadiance),
		StartMonth:      startMonth,
		EndMonth:        endMonth,
		GridName:        envOrDefault("GRID", "india"),
		RefreshInterval: refreshInterval,
		RegionWorkers:   parseRegionWorkers(),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "nightlights-region-series"),
	}

	if cfg.Product != raster.ProductRadiance && cfg.Product != raster.ProductCoverage {
		return nil, fmt.Errorf("invalid PRODUCT %q", cfg.Product)
	}
	if cfg.EndMonth.Before(cfg.StartMonth) {
		return nil, errors.New("END_MONTH is before START_MONTH")
	}
	if _, err := cfg.GridSystem(); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled && (len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopic == "") {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS/KAFKA_TOPIC are not set")
	}

	return cfg, nil
}

// GridSystem resolves the configured grid name to a reference grid.
func (c *Config) GridSystem() (domain.CoordinateSystem, error) {
	switch c.GridName {
	case "india":
		return IndiaGrid(), nil
	case "mumbai":
		return MumbaiGrid(), nil
	default:
		return domain.CoordinateSystem{}, fmt.Errorf("unknown GRID %q (want india or mumbai)", c.GridName)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseMonthEnv(key, def string) (time.Time, error) {
	v := envOrDefault(key, def)
	month, err := time.Parse("200601", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: want YYYYMM", key, v)
	}
	return month, nil
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	v := envOrDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}

func parseRegionWorkers() int {
	if s := os.Getenv("REGION_WORKERS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 4
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
