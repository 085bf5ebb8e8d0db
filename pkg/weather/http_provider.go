package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"cropcal/entities"
)

// HTTPProvider asks a forecast service for
// GET {endpoint}?lat=..&lon=..&start=YYYY-MM-DD&days=N.
type HTTPProvider struct {
	endpoint string
	days     int
	httpc    *http.Client
	log      *zap.Logger
}

func NewHTTP(endpoint string, timeout time.Duration, log *zap.Logger) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPProvider{
		endpoint: strings.TrimRight(endpoint, "/"),
		days:     DefaultDays,
		httpc:    &http.Client{Timeout: timeout},
		log:      log,
	}
}

func (p *HTTPProvider) Forecast(ctx context.Context, loc entities.Location, reference time.Time) (*entities.WeatherSignal, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lon, 'f', 4, 64))
	q.Set("start", entities.Day(reference).Format(entities.DateLayout))
	q.Set("days", strconv.Itoa(p.days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather request: status %d", resp.StatusCode)
	}

	var w wireSignal
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, fmt.Errorf("weather decode: %w", err)
	}
	sig, err := w.signal()
	if err != nil {
		return nil, fmt.Errorf("weather decode: %w", err)
	}
	if sig.ReferenceDate.IsZero() {
		sig.ReferenceDate = entities.Day(reference)
	}
	p.log.Debug("forecast fetched", zap.Int("days", len(sig.Forecast)), zap.String("start", q.Get("start")))
	return sig, nil
}
