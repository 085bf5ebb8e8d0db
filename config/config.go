package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cropcal/pkg/climate"
)

type AppConfig struct {
	Port     string
	Timezone string
	DBPath   string

	LogLevel  string
	LogFormat string

	WeatherEndpoint string
	WeatherTimeout  time.Duration

	GrowthCatalogYAML    string
	GrowthPracticesCSV   string
	GrowthPracticesXLSX  string
	AdvisoryAllowDomains []string
	AdvisoryMaxBytes     int

	// RequireFarmerID rejects requests without a farmer id instead of
	// falling back to the development farmer.
	RequireFarmerID bool
	SweepParallel   int

	Climate climate.Config
}

// Load reads .env (when present) and the environment. Malformed numbers are
// an error; unset keys take their defaults.
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function.
func FromEnv(getenv func(string) string) (AppConfig, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}
	var errs []string
	getInt := func(k string, def int) int {
		v := get(k, "")
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s=%q is not an integer", k, v))
			return def
		}
		return n
	}
	getFloat := func(k string, def float64) float64 {
		v := get(k, "")
		if v == "" {
			return def
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s=%q is not a number", k, v))
			return def
		}
		return f
	}

	d := climate.DefaultConfig()
	cfg := AppConfig{
		Port:                get("PORT", "8080"),
		Timezone:            get("TZ", "UTC"),
		DBPath:              get("DB_PATH", "cropcal.db"),
		LogLevel:            get("LOG_LEVEL", "info"),
		LogFormat:           get("LOG_FORMAT", "json"),
		WeatherEndpoint:     get("WEATHER_ENDPOINT", ""),
		WeatherTimeout:      time.Duration(getInt("WEATHER_TIMEOUT_SEC", 10)) * time.Second,
		GrowthCatalogYAML:   get("GROWTH_CATALOG_YAML", ""),
		GrowthPracticesCSV:  get("GROWTH_PRACTICES_CSV", ""),
		GrowthPracticesXLSX: get("GROWTH_PRACTICES_XLSX", ""),
		AdvisoryMaxBytes:    getInt("ADVISORY_MAX_BYTES", 1_500_000),
		RequireFarmerID:     get("REQUIRE_FARMER_ID", "false") == "true",
		SweepParallel:       getInt("SWEEP_PARALLEL", 4),
		Climate: climate.Config{
			MaxShiftDays:         getInt("MAX_SHIFT_DAYS", d.MaxShiftDays),
			HeavyRainMm:          getFloat("HEAVY_RAIN_MM", d.HeavyRainMm),
			LeachingRainMm:       getFloat("LEACHING_RAIN_MM", d.LeachingRainMm),
			LeachingWindowDays:   getInt("LEACHING_WINDOW_DAYS", d.LeachingWindowDays),
			DefaultDrainageClass: get("DEFAULT_DRAINAGE_CLASS", d.DefaultDrainageClass),
		},
	}
	for _, h := range strings.Split(get("ADVISORY_ALLOWED_DOMAINS", ""), ",") {
		if h = strings.TrimSpace(h); h != "" {
			cfg.AdvisoryAllowDomains = append(cfg.AdvisoryAllowDomains, h)
		}
	}
	if _, known := climate.ResolveDrainage(cfg.Climate.DefaultDrainageClass); !known {
		errs = append(errs, fmt.Sprintf("DEFAULT_DRAINAGE_CLASS=%q is not a drainage class", cfg.Climate.DefaultDrainageClass))
	}
	if len(errs) > 0 {
		return cfg, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}
