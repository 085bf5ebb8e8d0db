package entities

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type ForecastDay struct {
	Date   time.Time `json:"date"`
	RainMm float64   `json:"rain_mm"`
	TempC  float64   `json:"temp_c"`
}

// WeatherSignal is the already-fetched weather input for one adjustment call.
type WeatherSignal struct {
	ReferenceDate     time.Time     `json:"reference_date"`
	RecentRainfallMm  float64       `json:"recent_rainfall_mm"`
	Forecast          []ForecastDay `json:"forecast_next_n_days"`
	TemperatureTrend  string        `json:"temperature_trend,omitempty"`
	SoilMoistureIndex *float64      `json:"soil_moisture_index,omitempty"`
}

// Validate rejects signals the rule table cannot reason about.
func (w *WeatherSignal) Validate() error {
	if w == nil {
		return errors.New("weather signal is nil")
	}
	if len(w.Forecast) == 0 {
		return errors.New("forecast is empty")
	}
	seen := make(map[time.Time]bool, len(w.Forecast))
	for i, d := range w.Forecast {
		if d.Date.IsZero() {
			return fmt.Errorf("forecast[%d]: missing date", i)
		}
		if d.RainMm < 0 || math.IsNaN(d.RainMm) || math.IsInf(d.RainMm, 0) {
			return fmt.Errorf("forecast[%d]: invalid rain %v", i, d.RainMm)
		}
		day := Day(d.Date)
		if seen[day] {
			return fmt.Errorf("forecast[%d]: duplicate date %s", i, day.Format(DateLayout))
		}
		seen[day] = true
	}
	return nil
}

// RainByDay indexes forecast rainfall by calendar day.
func (w *WeatherSignal) RainByDay() map[time.Time]float64 {
	out := make(map[time.Time]float64, len(w.Forecast))
	for _, d := range w.Forecast {
		out[Day(d.Date)] = d.RainMm
	}
	return out
}

// Reference is the first day the forecast speaks for.
func (w *WeatherSignal) Reference() time.Time {
	if !w.ReferenceDate.IsZero() {
		return Day(w.ReferenceDate)
	}
	var first time.Time
	for _, d := range w.Forecast {
		if first.IsZero() || d.Date.Before(first) {
			first = d.Date
		}
	}
	return Day(first)
}
