package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcal/pkg/climate"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "cropcal.db", cfg.DBPath)
	assert.Equal(t, 10*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, climate.DefaultConfig(), cfg.Climate)
	assert.False(t, cfg.RequireFarmerID)
	assert.Empty(t, cfg.AdvisoryAllowDomains)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"MAX_SHIFT_DAYS":           "5",
		"HEAVY_RAIN_MM":            "25.5",
		"LEACHING_WINDOW_DAYS":     "4",
		"DEFAULT_DRAINAGE_CLASS":   "poorly drained",
		"ADVISORY_ALLOWED_DOMAINS": "kalro.org, infonet-biovision.org ,",
		"REQUIRE_FARMER_ID":        "true",
		"LOG_FORMAT":               "console",
	}))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Climate.MaxShiftDays)
	assert.Equal(t, 25.5, cfg.Climate.HeavyRainMm)
	assert.Equal(t, 4, cfg.Climate.LeachingWindowDays)
	assert.Equal(t, []string{"kalro.org", "infonet-biovision.org"}, cfg.AdvisoryAllowDomains)
	assert.True(t, cfg.RequireFarmerID)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestFromEnv_RejectsGarbage(t *testing.T) {
	_, err := FromEnv(env(map[string]string{
		"MAX_SHIFT_DAYS":         "a week",
		"DEFAULT_DRAINAGE_CLASS": "swampy",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_SHIFT_DAYS")
	assert.Contains(t, err.Error(), "DEFAULT_DRAINAGE_CLASS")
}
