// Package weather fetches the forecast signal the adjustment rules consume.
// Providers never invent weather: when nothing is known they return a nil
// signal and the caller records weather_unavailable.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"cropcal/entities"
)

// DefaultDays is how far ahead a provider is asked to look.
const DefaultDays = 7

type Provider interface {
	Forecast(ctx context.Context, loc entities.Location, reference time.Time) (*entities.WeatherSignal, error)
}

// wireDay and wireSignal are the JSON/YAML shapes shared by the HTTP
// provider and signal files.
type wireDay struct {
	Date   string  `json:"date" yaml:"date"`
	RainMm float64 `json:"rain_mm" yaml:"rain_mm"`
	TempC  float64 `json:"temp_c" yaml:"temp_c"`
}

type wireSignal struct {
	ReferenceDate     string    `json:"reference_date" yaml:"reference_date"`
	RecentRainfallMm  float64   `json:"recent_rainfall_mm" yaml:"recent_rainfall_mm"`
	Forecast          []wireDay `json:"forecast" yaml:"forecast"`
	TemperatureTrend  string    `json:"temperature_trend" yaml:"temperature_trend"`
	SoilMoistureIndex *float64  `json:"soil_moisture_index" yaml:"soil_moisture_index"`
}

func (w wireSignal) signal() (*entities.WeatherSignal, error) {
	sig := &entities.WeatherSignal{
		RecentRainfallMm:  w.RecentRainfallMm,
		TemperatureTrend:  w.TemperatureTrend,
		SoilMoistureIndex: w.SoilMoistureIndex,
	}
	if w.ReferenceDate != "" {
		d, err := entities.ParseDay(w.ReferenceDate)
		if err != nil {
			return nil, fmt.Errorf("reference_date: %w", err)
		}
		sig.ReferenceDate = d
	}
	for i, fd := range w.Forecast {
		d, err := entities.ParseDay(fd.Date)
		if err != nil {
			return nil, fmt.Errorf("forecast[%d].date: %w", i, err)
		}
		sig.Forecast = append(sig.Forecast, entities.ForecastDay{Date: d, RainMm: fd.RainMm, TempC: fd.TempC})
	}
	return sig, nil
}

// LoadSignalFile reads a weather signal from a YAML or JSON file.
func LoadSignalFile(path string) (*entities.WeatherSignal, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w wireSignal
	if err := yaml.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sig, err := w.signal()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sig, nil
}

// StaticProvider serves one fixed signal, or nothing. It is the provider
// used when no forecast endpoint is configured.
type StaticProvider struct {
	Signal *entities.WeatherSignal
}

func NewStatic(sig *entities.WeatherSignal) *StaticProvider { return &StaticProvider{Signal: sig} }

func (p *StaticProvider) Forecast(_ context.Context, _ entities.Location, _ time.Time) (*entities.WeatherSignal, error) {
	if p.Signal == nil {
		return nil, nil
	}
	out := *p.Signal
	out.Forecast = append([]entities.ForecastDay(nil), p.Signal.Forecast...)
	return &out, nil
}

// DecodeSignal parses the JSON wire form used by the HTTP API and the
// forecast service (dates as YYYY-MM-DD).
func DecodeSignal(raw []byte) (*entities.WeatherSignal, error) {
	var w wireSignal
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return w.signal()
}
